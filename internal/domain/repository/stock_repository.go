package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
)

// StockRepository puerto de lectura agregada del libro. El stock nunca se
// almacena: todo se deriva de inventory_movements y product_items.
type StockRepository interface {
	LedgerTotals(ctx context.Context, productID string) (inventory.LedgerTotals, error)
	// Summaries resumen de stock de todos los productos, ordenado por nombre.
	Summaries(ctx context.Context) ([]entity.StockSummary, error)
	// TotalReceivedValue Σ cantidad × costo unitario de todas las entradas.
	TotalReceivedValue(ctx context.Context) (decimal.Decimal, error)
	// UnitsOutSince unidades de salida por producto desde since.
	UnitsOutSince(ctx context.Context, since time.Time) (map[string]int, error)
}
