package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
)

func mov(typ string, qty int, cost string, reason string) *entity.InventoryMovement {
	m := &entity.InventoryMovement{Type: typ, Quantity: qty, Reason: reason}
	if cost != "" {
		c := decimal.RequireFromString(cost)
		m.UnitCost = &c
	}
	return m
}

func TestReplay_BalanceYCostoPromedio(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov(entity.MovementTypeIN, 10, "100", "Recepción"),
		mov(entity.MovementTypeIN, 2, "130", "Recepción"),
		mov(entity.MovementTypeOUT, 3, "150", "Venta #1"),
		mov(entity.MovementTypeADJUSTMENT, 1, "", "merma"),
		mov(entity.MovementTypeADJUSTMENT, 4, "", entity.ReasonAdjustmentIncrease+": conteo físico"),
	}
	totals := inventory.Replay(movs)

	assert.Equal(t, 10+2-3-1+4, totals.OnHand())
	// media simple de las entradas, no ponderada por cantidad
	assert.True(t, totals.AvgUnitCost().Equal(decimal.NewFromInt(115)), totals.AvgUnitCost().String())

	sum := 0
	for _, m := range movs {
		sum += inventory.Delta(m)
	}
	assert.Equal(t, totals.OnHand(), sum, "la suma de deltas debe igualar el balance")
}

func TestAvgUnitCost_SinEntradasEsCero(t *testing.T) {
	totals := inventory.Replay(nil)
	assert.Equal(t, 0, totals.OnHand())
	assert.True(t, totals.AvgUnitCost().IsZero())
}

func TestSummarize_SerializadoCuentaUnidades(t *testing.T) {
	p := &entity.Product{ID: "p1", Name: "iPhone 13", IsSerialized: true}
	totals := inventory.Replay([]*entity.InventoryMovement{
		mov(entity.MovementTypeIN, 1, "100", "r"),
		mov(entity.MovementTypeIN, 1, "200", "r"),
	})
	s := inventory.Summarize(p, totals, 1)
	assert.Equal(t, 1, s.OnHand)
	assert.True(t, s.LowStock)
	assert.True(t, s.AvgUnitCost.Equal(decimal.NewFromInt(150)))
}

func TestIsLowStock_Umbral(t *testing.T) {
	assert.True(t, inventory.IsLowStock(4))
	assert.False(t, inventory.IsLowStock(5))
}
