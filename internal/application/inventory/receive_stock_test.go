package inventory_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProduct(t *testing.T, store *memory.Store, name string, serialized bool) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, SKU: "SKU-" + name, Price: dec("200"), IsSerialized: serialized}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

// fakeCache guarda las lecturas serializadas en JSON y cuenta cuántas veces
// se calcularon.
type fakeCache struct {
	data        map[string][]byte
	loads       int
	invalidated int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Fetch(ctx context.Context, name string, dest any, loader func(context.Context) (any, error)) error {
	if raw, ok := c.data[name]; ok {
		return json.Unmarshal(raw, dest)
	}
	c.loads++
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	c.data[name] = raw
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	c.data = map[string][]byte{}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ReceiveStock
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveStock_Serializado(t *testing.T) {
	store := memory.NewStore()
	cache := newFakeCache()
	uc := appinventory.NewReceiveStockUseCase(store, cache, nil)
	p := newProduct(t, store, "iPhone", true)

	resp, err := uc.ReceiveStock(context.Background(), dto.ReceiveStockRequest{
		ProductID: p.ID, Quantity: 2, UnitCost: dec("900"), Serials: []string{" IMEI-1 ", "IMEI-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.ReceiptTypeSerialized, resp.Type)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "IMEI-1", resp.Items[0].SerialNumber, "los seriales se recortan")
	assert.Equal(t, 1, cache.invalidated)

	items, err := store.Items().ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, entity.ItemAvailable, it.Status)
		in, err := store.Movements().FirstInByItem(context.Background(), it.ID)
		require.NoError(t, err)
		require.NotNil(t, in)
		assert.Equal(t, 1, in.Quantity)
		assert.True(t, in.UnitCost.Equal(dec("900")))
		assert.Equal(t, entity.ReasonStockReceived, in.Reason)
	}
}

func TestReceiveStock_Granel(t *testing.T) {
	store := memory.NewStore()
	uc := appinventory.NewReceiveStockUseCase(store, nil, nil)
	p := newProduct(t, store, "Cable", false)

	resp, err := uc.ReceiveStock(context.Background(), dto.ReceiveStockRequest{
		ProductID: p.ID, Quantity: 12, UnitCost: dec("3.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, dto.ReceiptTypeGeneric, resp.Type)
	require.NotNil(t, resp.Product)
	assert.Equal(t, "Cable", resp.Product.Name)
	assert.Equal(t, 12, resp.Quantity)

	totals, err := store.Stock().LedgerTotals(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, totals.OnHand())
}

func TestReceiveStock_SerialesNoCoincidenNoDejaFilas(t *testing.T) {
	store := memory.NewStore()
	uc := appinventory.NewReceiveStockUseCase(store, nil, nil)
	p := newProduct(t, store, "Tablet", true)
	ctx := context.Background()

	cases := map[string][]string{
		"faltan seriales": {"A"},
		"serial vacío":    {"A", " "},
		"serial repetido": {"A", "A"},
	}
	for name, serials := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.ReceiveStock(ctx, dto.ReceiveStockRequest{
				ProductID: p.ID, Quantity: 2, UnitCost: dec("100"), Serials: serials,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	items, err := store.Items().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	totals, err := store.Stock().LedgerTotals(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, totals.InCount)
}

func TestReceiveStock_SerialYaRegistradoRevierteLote(t *testing.T) {
	store := memory.NewStore()
	uc := appinventory.NewReceiveStockUseCase(store, nil, nil)
	p := newProduct(t, store, "Laptop", true)
	ctx := context.Background()

	_, err := uc.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: p.ID, Quantity: 1, UnitCost: dec("100"), Serials: []string{"SN-1"}})
	require.NoError(t, err)

	_, err = uc.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: p.ID, Quantity: 2, UnitCost: dec("100"), Serials: []string{"SN-2", "SN-1"}})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	items, err := store.Items().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "SN-2 no debe quedar registrado")
}

func TestReceiveStock_Validaciones(t *testing.T) {
	store := memory.NewStore()
	uc := appinventory.NewReceiveStockUseCase(store, nil, nil)
	p := newProduct(t, store, "Mouse", false)
	ctx := context.Background()

	_, err := uc.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: "no-existe", Quantity: 1, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: p.ID, Quantity: 0, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ReceiveStock(ctx, dto.ReceiveStockRequest{Quantity: 1, UnitCost: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: p.ID, Quantity: 1, UnitCost: dec("12.34567")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el costo se guarda con cuatro decimales")

	_, err = uc.ReceiveStock(ctx, dto.ReceiveStockRequest{ProductID: p.ID, Quantity: 1, UnitCost: dec("12.3456")})
	assert.NoError(t, err)
}
