package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/application/pos"
	"github.com/jhoicas/inventario-pos/internal/application/sales"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	infracache "github.com/jhoicas/inventario-pos/internal/infrastructure/cache"
	infraexcel "github.com/jhoicas/inventario-pos/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-pos/internal/interfaces/http"
	"github.com/jhoicas/inventario-pos/pkg/config"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// storage repositorios del backend elegido en APP_STORAGE.
type storage struct {
	txRunner   repository.TxRunner
	repos      repository.Repos
	categories repository.CategoryRepository
	expenses   repository.ExpenseRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Caché de stock en Redis (opcional). Sin REDIS_ADDR las lecturas van directo al almacenamiento.
	var stockCache inventory.Cache
	var stockInvalidator pos.Invalidator
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no responde; la caché se omitirá mientras falle")
		}
		cancel()
		c := infracache.NewStockCache(client, cfg.Redis.CacheTTL)
		stockCache, stockInvalidator = c, c
	}

	receiveUC := inventory.NewReceiveStockUseCase(store.txRunner, stockCache, log)
	stockUC := inventory.NewStockUseCase(store.txRunner, store.repos, stockCache)
	itemStatusUC := inventory.NewItemStatusUseCase(store.txRunner, stockCache, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.repos.Products, store.repos.Stock)
	searchUC := pos.NewSearchProductUseCase(store.txRunner)
	saleUC := pos.NewProcessSaleUseCase(store.txRunner, store.repos.Sales, stockInvalidator, log)
	productUC := usecase.NewProductUseCase(store.repos.Products, store.categories, stockInvalidator, log)
	categoryUC := usecase.NewCategoryUseCase(store.categories)
	expenseUC := usecase.NewExpenseUseCase(store.expenses, store.repos.Items, log)
	salesUC := sales.NewSalesUseCase(store.repos.Sales, store.expenses, infrapdf.NewReceiptGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		ExpenseUC:        expenseUC,
		ReceiveStock:     receiveUC,
		Stock:            stockUC,
		ItemStatus:       itemStatusUC,
		Replenishment:    replenishmentUC,
		MovementExporter: infraexcel.NewMovementsExporter(),
		SearchProduct:    searchUC,
		ProcessSale:      saleUC,
		SalesUC:          salesUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando el esquema si DB_AUTO_MIGRATE) o el
// almacenamiento en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &storage{
			txRunner:   mem,
			repos:      mem.Repos(),
			categories: mem.Categories(),
			expenses:   mem.Expenses(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &storage{
		txRunner:   postgres.NewTxRunner(pool, cfg.Tx, log),
		repos:      postgres.Repos(pool),
		categories: postgres.NewCategoryRepository(pool),
		expenses:   postgres.NewExpenseRepository(pool),
		close:      pool.Close,
	}, nil
}
