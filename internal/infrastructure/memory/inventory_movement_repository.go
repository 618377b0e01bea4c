package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var (
	_ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)
	_ repository.StockRepository             = (*StockRepo)(nil)
)

// InventoryMovementRepo libro de movimientos en memoria (solo inserción).
type InventoryMovementRepo struct{ h handle }

func (r *InventoryMovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return r.h.write(func(st *state) error {
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *InventoryMovementRepo) FirstInByItem(_ context.Context, itemID string) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.Type == entity.MovementTypeIN && m.ProductItemID != nil && *m.ProductItemID == itemID {
				cp := *m
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InventoryMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.h.read(func(st *state) error {
		var matched []*entity.InventoryMovement
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			matched = append(matched, m)
		}
		for _, m := range page(matched, f.Limit, f.Offset) {
			cp := *m
			if p, ok := st.products[m.ProductID]; ok {
				cp.ProductName = p.Name
			}
			if m.ProductItemID != nil {
				if it, ok := st.items[*m.ProductItemID]; ok {
					cp.SerialNumber = it.SerialNumber
				}
			}
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

// StockRepo agregados de stock derivados del libro en memoria.
type StockRepo struct{ h handle }

func ledgerTotals(st *state, productID string) inventory.LedgerTotals {
	var t inventory.LedgerTotals
	for _, m := range st.movements {
		if m.ProductID == productID {
			t.Add(m)
		}
	}
	return t
}

func (r *StockRepo) LedgerTotals(_ context.Context, productID string) (inventory.LedgerTotals, error) {
	var t inventory.LedgerTotals
	err := r.h.read(func(st *state) error {
		t = ledgerTotals(st, productID)
		return nil
	})
	return t, err
}

func (r *StockRepo) Summaries(_ context.Context) ([]entity.StockSummary, error) {
	var out []entity.StockSummary
	err := r.h.read(func(st *state) error {
		for _, p := range sortedProducts(st) {
			out = append(out, inventory.Summarize(p, ledgerTotals(st, p.ID), countAvailable(st, p.ID)))
		}
		return nil
	})
	return out, err
}

func (r *StockRepo) TotalReceivedValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.Type == entity.MovementTypeIN && m.UnitCost != nil {
				total = total.Add(m.UnitCost.Mul(decimal.NewFromInt(int64(m.Quantity))))
			}
		}
		return nil
	})
	return total, err
}

func (r *StockRepo) UnitsOutSince(_ context.Context, since time.Time) (map[string]int, error) {
	out := map[string]int{}
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.Type == entity.MovementTypeOUT && !m.CreatedAt.Before(since) {
				out[m.ProductID] += m.Quantity
			}
		}
		return nil
	})
	return out, err
}
