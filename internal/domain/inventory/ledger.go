package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// LowStockThreshold un producto con menos unidades que esto se marca como stock bajo.
const LowStockThreshold = 5

// LedgerTotals acumulados del libro de movimientos de un producto.
// Para productos a granel son la única fuente del stock disponible.
type LedgerTotals struct {
	In         int
	Out        int
	AdjustUp   int
	AdjustDown int
	InCount    int             // filas IN
	InCostSum  decimal.Decimal // suma de unitCost de las filas IN (sin ponderar)
}

// Delta aporte con signo de un movimiento al stock a granel.
func Delta(m *entity.InventoryMovement) int {
	switch m.Type {
	case entity.MovementTypeIN:
		return m.Quantity
	case entity.MovementTypeOUT:
		return -m.Quantity
	case entity.MovementTypeADJUSTMENT:
		if m.IsIncrease() {
			return m.Quantity
		}
		return -m.Quantity
	}
	return 0
}

// Add acumula un movimiento.
func (t *LedgerTotals) Add(m *entity.InventoryMovement) {
	switch m.Type {
	case entity.MovementTypeIN:
		t.In += m.Quantity
		t.InCount++
		if m.UnitCost != nil {
			t.InCostSum = t.InCostSum.Add(*m.UnitCost)
		}
	case entity.MovementTypeOUT:
		t.Out += m.Quantity
	case entity.MovementTypeADJUSTMENT:
		if m.IsIncrease() {
			t.AdjustUp += m.Quantity
		} else {
			t.AdjustDown += m.Quantity
		}
	}
}

// Replay reconstruye los acumulados recorriendo los movimientos.
func Replay(movements []*entity.InventoryMovement) LedgerTotals {
	var t LedgerTotals
	for _, m := range movements {
		t.Add(m)
	}
	return t
}

// OnHand Σ IN − Σ OUT ± ADJUSTMENT.
func (t LedgerTotals) OnHand() int {
	return t.In - t.Out + t.AdjustUp - t.AdjustDown
}

// AvgUnitCost media aritmética simple del costo unitario de las entradas.
// Cero si no hay entradas.
func (t LedgerTotals) AvgUnitCost() decimal.Decimal {
	if t.InCount == 0 {
		return decimal.Zero
	}
	return t.InCostSum.Div(decimal.NewFromInt(int64(t.InCount)))
}

// IsLowStock indica si onHand está por debajo del umbral.
func IsLowStock(onHand int) bool {
	return onHand < LowStockThreshold
}

// Summarize arma el resumen de stock. Para serializados onHand es el conteo de
// unidades disponibles; para granel, el balance del libro.
func Summarize(p *entity.Product, totals LedgerTotals, availableItems int) entity.StockSummary {
	onHand := totals.OnHand()
	if p.IsSerialized {
		onHand = availableItems
	}
	return entity.StockSummary{
		ProductID:    p.ID,
		ProductName:  p.Name,
		SKU:          p.SKU,
		IsSerialized: p.IsSerialized,
		OnHand:       onHand,
		AvgUnitCost:  totals.AvgUnitCost(),
		LowStock:     IsLowStock(onHand),
	}
}
