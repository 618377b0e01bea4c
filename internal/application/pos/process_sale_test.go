package pos_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/application/pos"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	receive *appinventory.ReceiveStockUseCase
	stock   *appinventory.StockUseCase
	sales   *pos.ProcessSaleUseCase
	search  *pos.SearchProductUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:   store,
		receive: appinventory.NewReceiveStockUseCase(store, nil, nil),
		stock:   appinventory.NewStockUseCase(store, store.Repos(), nil),
		sales:   pos.NewProcessSaleUseCase(store, store.Sales(), nil, nil),
		search:  pos.NewSearchProductUseCase(store),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) product(t *testing.T, name string, serialized bool) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: dec("150"), IsSerialized: serialized}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) receiveBulk(t *testing.T, productID string, qty int, cost string) {
	t.Helper()
	_, err := f.receive.ReceiveStock(context.Background(), dto.ReceiveStockRequest{
		ProductID: productID, Quantity: qty, UnitCost: dec(cost),
	})
	require.NoError(t, err)
}

func (f *fixture) receiveSerial(t *testing.T, productID, serial, cost string) string {
	t.Helper()
	resp, err := f.receive.ReceiveStock(context.Background(), dto.ReceiveStockRequest{
		ProductID: productID, Quantity: 1, UnitCost: dec(cost), Serials: []string{serial},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	return resp.Items[0].ID
}

func (f *fixture) onHand(t *testing.T, productID string) int {
	t.Helper()
	s, err := f.stock.ComputeStock(context.Background(), productID)
	require.NoError(t, err)
	return s.OnHand
}

func bulkLine(productID string, qty int, price string) dto.SaleLineRequest {
	return dto.SaleLineRequest{ProductID: productID, Quantity: qty, Price: dec(price)}
}

func serialLine(productID, itemID, price string) dto.SaleLineRequest {
	return dto.SaleLineRequest{ProductID: productID, ProductItemID: &itemID, Quantity: 1, Price: dec(price), IsSerialized: true}
}

func sale(lines ...dto.SaleLineRequest) dto.ProcessSaleRequest {
	total := decimal.Zero
	for _, l := range lines {
		q := l.Quantity
		if q == 0 {
			q = 1
		}
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(q))))
	}
	return dto.ProcessSaleRequest{Items: lines, TotalAmount: total}
}

func (f *fixture) salesCount(t *testing.T) int {
	t.Helper()
	list, err := f.store.Sales().List(context.Background(), 0, 0)
	require.NoError(t, err)
	return len(list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios completos
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_GranelCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Cargador USB-C", false)
	f.receiveBulk(t, p.ID, 5, "100")

	s, err := f.stock.ComputeStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, s.OnHand)
	assert.True(t, s.AvgUnitCost.Equal(dec("100")))

	resp, err := f.sales.ProcessSale(ctx, "u1", "", sale(bulkLine(p.ID, 3, "125")))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SaleID)
	assert.Equal(t, 2, f.onHand(t, p.ID))

	_, err = f.sales.ProcessSale(ctx, "u1", "", sale(bulkLine(p.ID, 3, "125")))
	require.Error(t, err)
	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Available)
	assert.Equal(t, 3, se.Requested)
	assert.Equal(t, 2, f.onHand(t, p.ID))
	assert.Equal(t, 1, f.salesCount(t))
}

func TestProcessSale_SerializadoCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "iPhone 13", true)
	itemID := f.receiveSerial(t, p.ID, "IMEI123", "100")

	found, err := f.search.SearchProduct(ctx, "IMEI123")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.ProductItemID)
	assert.Equal(t, itemID, *found.ProductItemID)
	assert.Equal(t, 1, found.AvailableQty)
	assert.Equal(t, "available", found.Status)
	assert.True(t, found.AvgUnitCost.Equal(dec("100")))

	resp, err := f.sales.ProcessSale(ctx, "u1", "", sale(serialLine(p.ID, itemID, "112")))
	require.NoError(t, err)

	again, err := f.search.SearchProduct(ctx, "IMEI123")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "sold", again.Status, "la búsqueda sigue encontrando la unidad pero vendida")

	_, err = f.sales.ProcessSale(ctx, "u1", "", sale(serialLine(p.ID, itemID, "112")))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 0, f.onHand(t, p.ID))

	details, err := f.store.Sales().ListDetails(ctx, resp.SaleID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "IMEI123", details[0].SerialNumber)
	assert.True(t, details[0].UnitCost.Equal(dec("100")))

	movs, err := f.stock.ListMovements(ctx, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs.Items, 2)
	out := movs.Items[0]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.Equal(t, 1, out.Quantity)
	assert.True(t, out.UnitCost.Equal(dec("112")), "la salida registra el precio de venta")
	assert.Equal(t, entity.SaleReason(resp.SaleID), out.Reason)
}

// ──────────────────────────────────────────────────────────────────────────────
// Márgenes
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_MargenGranel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Vidrio templado", false)
	f.receiveBulk(t, p.ID, 10, "100")

	_, err := f.sales.ProcessSale(ctx, "", "", sale(bulkLine(p.ID, 1, "110")))
	var pe *domain.PricingError
	require.True(t, errors.As(err, &pe), "se esperaba PricingError, llegó %v", err)
	assert.True(t, pe.MinPrice.Equal(dec("125")))
	assert.Equal(t, 10, f.onHand(t, p.ID))
	assert.Equal(t, 0, f.salesCount(t), "la cabecera también se revierte")

	_, err = f.sales.ProcessSale(ctx, "", "", sale(bulkLine(p.ID, 1, "125")))
	require.NoError(t, err)
	assert.Equal(t, 9, f.onHand(t, p.ID))
}

func TestProcessSale_MargenSerializado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Galaxy S22", true)
	itemID := f.receiveSerial(t, p.ID, "SN-1", "100")

	_, err := f.sales.ProcessSale(ctx, "", "", sale(serialLine(p.ID, itemID, "108")))
	var pe *domain.PricingError
	require.True(t, errors.As(err, &pe))
	assert.True(t, pe.MinPrice.Equal(dec("111.12")), pe.MinPrice.String())
	assert.True(t, pe.Cost.Equal(dec("100")))
	assert.Equal(t, 1, f.onHand(t, p.ID), "la unidad sigue disponible")

	_, err = f.sales.ProcessSale(ctx, "", "", sale(serialLine(p.ID, itemID, "112")))
	require.NoError(t, err)
}

func TestProcessSale_PrecioConFraccionDeCentavo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Redmi 12", true)
	itemID := f.receiveSerial(t, p.ID, "RD-1", "100")

	// 111.1112 pasa el margen, pero guardado a centavos quedaría en 111.11.
	_, err := f.sales.ProcessSale(ctx, "", "", sale(serialLine(p.ID, itemID, "111.1112")))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.salesCount(t))
	assert.Equal(t, 1, f.onHand(t, p.ID))

	req := sale(serialLine(p.ID, itemID, "111.12"))
	req.TotalAmount = dec("111.125")
	_, err = f.sales.ProcessSale(ctx, "", "", req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Ceros a la derecha no cuentan como decimales.
	_, err = f.sales.ProcessSale(ctx, "", "", sale(serialLine(p.ID, itemID, "111.1200")))
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_DosLineasRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := f.product(t, "Moto G", true)
	itemID := f.receiveSerial(t, phone.ID, "IMEI-9", "100")
	cable := f.product(t, "Cable", false)
	f.receiveBulk(t, cable.ID, 1, "10")

	_, err := f.sales.ProcessSale(ctx, "u1", "", sale(
		serialLine(phone.ID, itemID, "150"),
		bulkLine(cable.ID, 2, "20"),
	))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	item, err := f.store.Items().GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemAvailable, item.Status, "la línea 1 se revierte")
	assert.Equal(t, 1, f.onHand(t, phone.ID))
	assert.Equal(t, 1, f.onHand(t, cable.ID))
	assert.Equal(t, 0, f.salesCount(t))

	movs, err := f.stock.ListMovements(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	for _, m := range movs.Items {
		assert.NotEqual(t, entity.MovementTypeOUT, m.Type, "no debe quedar ninguna salida")
	}
}

func TestProcessSale_MismoProductoEnDosLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Audífonos", false)
	f.receiveBulk(t, p.ID, 4, "10")

	_, err := f.sales.ProcessSale(ctx, "", "", sale(bulkLine(p.ID, 3, "20"), bulkLine(p.ID, 2, "20")))
	require.ErrorIs(t, err, domain.ErrInsufficientStock, "la segunda línea ve la salida de la primera")
	assert.Equal(t, 4, f.onHand(t, p.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := f.product(t, "Pixel 7", true)
	itemID := f.receiveSerial(t, phone.ID, "PX-1", "100")
	bulk := f.product(t, "Funda", false)
	f.receiveBulk(t, bulk.ID, 5, "10")

	cases := map[string]struct {
		req  dto.ProcessSaleRequest
		want error
	}{
		"sin ítems":                {dto.ProcessSaleRequest{TotalAmount: dec("10")}, domain.ErrInvalidInput},
		"total cero":               {dto.ProcessSaleRequest{Items: []dto.SaleLineRequest{bulkLine(bulk.ID, 1, "20")}}, domain.ErrInvalidInput},
		"precio cero":              {sale(dto.SaleLineRequest{ProductID: bulk.ID, Quantity: 1}), domain.ErrInvalidInput},
		"serializado sin unidad":   {sale(dto.SaleLineRequest{ProductID: phone.ID, Price: dec("150"), IsSerialized: true}), domain.ErrInvalidInput},
		"producto inexistente":     {sale(bulkLine("no-existe", 1, "20")), domain.ErrNotFound},
		"unidad inexistente":       {sale(serialLine(phone.ID, "no-existe", "150")), domain.ErrNotFound},
		"tipo no coincide":         {sale(bulkLine(phone.ID, 1, "150")), domain.ErrInvalidInput},
		"unidad de otro producto":  {sale(serialLine(bulk.ID, itemID, "150")), domain.ErrInvalidInput},
		"serializado cantidad > 1": {sale(dto.SaleLineRequest{ProductID: phone.ID, ProductItemID: &itemID, Quantity: 2, Price: dec("150"), IsSerialized: true}), domain.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.sales.ProcessSale(ctx, "", "", tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 0, f.salesCount(t))
}

func TestProcessSale_CantidadCeroEsUno(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Protector", false)
	f.receiveBulk(t, p.ID, 2, "10")

	_, err := f.sales.ProcessSale(context.Background(), "", "", sale(bulkLine(p.ID, 0, "20")))
	require.NoError(t, err)
	assert.Equal(t, 1, f.onHand(t, p.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_ClaveDeIdempotencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Batería externa", false)
	f.receiveBulk(t, p.ID, 5, "10")

	first, err := f.sales.ProcessSale(ctx, "u1", "caja-1-0001", sale(bulkLine(p.ID, 1, "20")))
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := f.sales.ProcessSale(ctx, "u1", "caja-1-0001", sale(bulkLine(p.ID, 1, "20")))
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.SaleID, second.SaleID)
	assert.Equal(t, 4, f.onHand(t, p.ID), "la segunda petición no vuelve a descontar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessSale_UnaUnidadSeVendeUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "iPhone 15", true)
	itemID := f.receiveSerial(t, p.ID, "IMEI-X", "100")

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, state int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.ProcessSale(context.Background(), "", "", sale(serialLine(p.ID, itemID, "150")))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInvalidState):
				state++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok, "exactamente una venta confirma")
	assert.Equal(t, workers-1, state, "el resto ve la unidad vendida")
	assert.Equal(t, 1, f.salesCount(t))
}

func TestProcessSale_GranelNuncaQuedaNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Memoria SD", false)
	f.receiveBulk(t, p.ID, 5, "10")

	var wg sync.WaitGroup
	results := make(chan error, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.ProcessSale(context.Background(), "", "", sale(bulkLine(p.ID, 2, "20")))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, f.onHand(t, p.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_RecalculoIgualAlBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Cable Lightning", false)
	f.receiveBulk(t, p.ID, 7, "10")
	f.receiveBulk(t, p.ID, 3, "14")
	for _, q := range []int{2, 1, 4} {
		_, err := f.sales.ProcessSale(ctx, "", "", sale(bulkLine(p.ID, q, "30")))
		require.NoError(t, err)
	}

	first, err := f.stock.ComputeStock(ctx, p.ID)
	require.NoError(t, err)
	second, err := f.stock.ComputeStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OnHand, second.OnHand, "computeStock es idempotente")
	assert.True(t, first.AvgUnitCost.Equal(second.AvgUnitCost))
	assert.Equal(t, first.LowStock, second.LowStock)

	movs, err := f.store.Movements().List(ctx, repositoryFilter(p.ID))
	require.NoError(t, err)
	sum := 0
	for _, m := range movs {
		sum += inventory.Delta(m)
	}
	assert.Equal(t, 3, first.OnHand)
	assert.Equal(t, first.OnHand, sum)
	assert.True(t, first.AvgUnitCost.Equal(dec("12")))
}
