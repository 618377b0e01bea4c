package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo agregados de stock calculados en SQL sobre el libro (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ledgerAggregates columnas de LedgerTotals. $1 es el prefijo de los ajustes que suman.
const ledgerAggregates = `
	COALESCE(SUM(quantity) FILTER (WHERE type = 'IN'), 0),
	COALESCE(SUM(quantity) FILTER (WHERE type = 'OUT'), 0),
	COALESCE(SUM(quantity) FILTER (WHERE type = 'ADJUSTMENT' AND starts_with(reason, $1)), 0),
	COALESCE(SUM(quantity) FILTER (WHERE type = 'ADJUSTMENT' AND NOT starts_with(reason, $1)), 0),
	COUNT(*) FILTER (WHERE type = 'IN'),
	COALESCE(SUM(unit_cost) FILTER (WHERE type = 'IN'), 0)`

// LedgerTotals acumulados del libro para un producto.
func (r *StockRepo) LedgerTotals(ctx context.Context, productID string) (inventory.LedgerTotals, error) {
	var t inventory.LedgerTotals
	query := `SELECT ` + ledgerAggregates + ` FROM inventory_movements WHERE product_id = $2`
	err := r.q.QueryRow(ctx, query, entity.ReasonAdjustmentIncrease, productID).Scan(
		&t.In, &t.Out, &t.AdjustUp, &t.AdjustDown, &t.InCount, &t.InCostSum,
	)
	if err != nil {
		return inventory.LedgerTotals{}, fmt.Errorf("ledger totals: %w", err)
	}
	return t, nil
}

// Summaries resumen de stock de todos los productos en una sola consulta.
func (r *StockRepo) Summaries(ctx context.Context) ([]entity.StockSummary, error) {
	query := `
		SELECT p.id, p.name, p.sku, p.is_serialized,
			COALESCE(m.in_qty, 0), COALESCE(m.out_qty, 0), COALESCE(m.adj_up, 0), COALESCE(m.adj_down, 0),
			COALESCE(m.in_count, 0), COALESCE(m.in_cost, 0), COALESCE(i.available, 0)
		FROM products p
		LEFT JOIN (
			SELECT product_id,
				SUM(quantity) FILTER (WHERE type = 'IN') AS in_qty,
				SUM(quantity) FILTER (WHERE type = 'OUT') AS out_qty,
				SUM(quantity) FILTER (WHERE type = 'ADJUSTMENT' AND starts_with(reason, $1)) AS adj_up,
				SUM(quantity) FILTER (WHERE type = 'ADJUSTMENT' AND NOT starts_with(reason, $1)) AS adj_down,
				COUNT(*) FILTER (WHERE type = 'IN') AS in_count,
				SUM(unit_cost) FILTER (WHERE type = 'IN') AS in_cost
			FROM inventory_movements GROUP BY product_id
		) m ON m.product_id = p.id
		LEFT JOIN (
			SELECT product_id, COUNT(*) AS available
			FROM product_items WHERE status = $2 GROUP BY product_id
		) i ON i.product_id = p.id
		ORDER BY lower(p.name), p.id`
	rows, err := r.q.Query(ctx, query, entity.ReasonAdjustmentIncrease, string(entity.ItemAvailable))
	if err != nil {
		return nil, fmt.Errorf("stock summaries: %w", err)
	}
	defer rows.Close()
	var list []entity.StockSummary
	for rows.Next() {
		var (
			p         entity.Product
			t         inventory.LedgerTotals
			available int
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.IsSerialized,
			&t.In, &t.Out, &t.AdjustUp, &t.AdjustDown, &t.InCount, &t.InCostSum, &available); err != nil {
			return nil, fmt.Errorf("scan stock summary: %w", err)
		}
		list = append(list, inventory.Summarize(&p, t, available))
	}
	return list, rows.Err()
}

// TotalReceivedValue Σ cantidad × costo de todas las entradas.
func (r *StockRepo) TotalReceivedValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * unit_cost), 0) FROM inventory_movements WHERE type = 'IN'`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total received value: %w", err)
	}
	return total, nil
}

// UnitsOutSince unidades de salida por producto desde since.
func (r *StockRepo) UnitsOutSince(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, SUM(quantity) FROM inventory_movements
		WHERE type = 'OUT' AND created_at >= $1
		GROUP BY product_id`, since)
	if err != nil {
		return nil, fmt.Errorf("units out since: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var (
			id  string
			qty int
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan units out: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}
