package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/application/pos"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-pos/pkg/config"
)

// Estos tests necesitan una base real: DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
type pgFixture struct {
	receive *appinventory.ReceiveStockUseCase
	stock   *appinventory.StockUseCase
	sales   *pos.ProcessSaleUseCase
	create  func(t *testing.T, serialized bool) *entity.Product
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{
		DatabaseURL: url,
		Pool:        config.PoolConfig{MaxConns: 12, MinConns: 1},
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))

	runner := postgres.NewTxRunner(pool, config.TxConfig{MaxRetries: 5, Backoff: 10 * time.Millisecond}, nil)
	repos := postgres.Repos(pool)
	return &pgFixture{
		receive: appinventory.NewReceiveStockUseCase(runner, nil, nil),
		stock:   appinventory.NewStockUseCase(runner, repos, nil),
		sales:   pos.NewProcessSaleUseCase(runner, repos.Sales, nil, nil),
		create: func(t *testing.T, serialized bool) *entity.Product {
			t.Helper()
			now := time.Now()
			p := &entity.Product{
				ID:           uuid.New().String(),
				Name:         "prueba-" + uuid.New().String(),
				Price:        decimal.NewFromInt(150),
				IsSerialized: serialized,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			require.NoError(t, repos.Products.Create(ctx, p))
			return p
		},
	}
}

func TestPostgres_UnaUnidadSeVendeUnaSolaVez(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	p := f.create(t, true)
	serial := "IMEI-" + uuid.New().String()
	resp, err := f.receive.ReceiveStock(ctx, dto.ReceiveStockRequest{
		ProductID: p.ID, Quantity: 1, UnitCost: decimal.NewFromInt(100), Serials: []string{serial},
	})
	require.NoError(t, err)
	itemID := resp.Items[0].ID

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.ProcessSale(ctx, "", "", dto.ProcessSaleRequest{
				Items: []dto.SaleLineRequest{{
					ProductID: p.ID, ProductItemID: &itemID, Quantity: 1,
					Price: decimal.NewFromInt(150), IsSerialized: true,
				}},
				TotalAmount: decimal.NewFromInt(150),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrConcurrencyConflict), err.Error())
	}
	assert.Equal(t, 1, ok, "exactamente una venta confirma")

	s, err := f.stock.ComputeStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.OnHand)
}

func TestPostgres_GranelNuncaQuedaNegativo(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	p := f.create(t, false)
	_, err := f.receive.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: p.ID, Quantity: 5, UnitCost: decimal.NewFromInt(10)})
	require.NoError(t, err)

	const workers = 6
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.ProcessSale(ctx, "", "", dto.ProcessSaleRequest{
				Items:       []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 2, Price: decimal.NewFromInt(20)}},
				TotalAmount: decimal.NewFromInt(40),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrConcurrencyConflict), err.Error())
	}
	assert.Equal(t, 2, ok, "5 unidades alcanzan para dos ventas de 2")

	s, err := f.stock.ComputeStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.OnHand)
}
