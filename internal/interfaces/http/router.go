package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/application/pos"
	"github.com/jhoicas/inventario-pos/internal/application/sales"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	ExpenseUC        *usecase.ExpenseUseCase
	ReceiveStock     *inventory.ReceiveStockUseCase
	Stock            *inventory.StockUseCase
	ItemStatus       *inventory.ItemStatusUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	MovementExporter inventory.MovementExporter
	SearchProduct    *pos.SearchProductUseCase
	ProcessSale      *pos.ProcessSaleUseCase
	SalesUC          *sales.SalesUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las
// escrituras y los reportes además restringen por rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	admin := RequireRole(jwt.RoleAdmin)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	sellRoles := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", admin, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", admin, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", admin, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", admin, categoryHandler.Update)

	// Inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ReceiveStock, deps.Stock, deps.ItemStatus, deps.Replenishment, deps.MovementExporter)
	invGroup.Post("/receipts", stockRoles, inventoryHandler.ReceiveStock)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/stock/:productId", inventoryHandler.GetStock)
	invGroup.Get("/stats", stockRoles, inventoryHandler.Stats)
	invGroup.Get("/movements", stockRoles, inventoryHandler.ListMovements)
	invGroup.Get("/movements/export", stockRoles, inventoryHandler.ExportMovements)
	invGroup.Get("/products/:productId/serials", inventoryHandler.ListSerials)
	invGroup.Patch("/items/:id/status", stockRoles, inventoryHandler.UpdateItemStatus)
	invGroup.Get("/replenishment-list", stockRoles, inventoryHandler.GetReplenishmentList)

	// Punto de venta
	posGroup := api.Group("/pos")
	posHandler := NewPOSHandler(deps.SearchProduct, deps.ProcessSale)
	posGroup.Get("/search", posHandler.Search)
	posGroup.Post("/sales", sellRoles, posHandler.ProcessSale)

	// Reportes de ventas
	salesGroup := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Get("/", admin, salesHandler.List)
	salesGroup.Get("/kpis", admin, salesHandler.KPIs)
	salesGroup.Get("/:id", sellRoles, salesHandler.GetByID)
	salesGroup.Get("/:id/receipt", sellRoles, salesHandler.Receipt)

	// Gastos
	expenses := api.Group("/expenses", admin)
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses.Post("/categories", expenseHandler.CreateCategory)
	expenses.Get("/categories", expenseHandler.ListCategories)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
}
