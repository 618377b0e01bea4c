package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct{ h handle }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return r.h.write(func(st *state) error {
		if s.IdempotencyKey != "" {
			for _, existing := range st.sales {
				if existing.IdempotencyKey == s.IdempotencyKey {
					return fmt.Errorf("%w: clave de idempotencia %s", domain.ErrDuplicate, s.IdempotencyKey)
				}
			}
		}
		cp := *s
		st.sales[s.ID] = &cp
		st.saleOrder = append(st.saleOrder, s.ID)
		return nil
	})
}

func (r *SaleRepo) CreateDetail(_ context.Context, d *entity.SaleDetail) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return r.h.write(func(st *state) error {
		if _, ok := st.sales[d.SaleID]; !ok {
			return domain.NotFound("venta", d.SaleID)
		}
		cp := *d
		st.details = append(st.details, &cp)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.read(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			cp := *s
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.read(func(st *state) error {
		for _, s := range st.sales {
			if key != "" && s.IdempotencyKey == key {
				cp := *s
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) ListDetails(_ context.Context, saleID string) ([]*entity.SaleDetail, error) {
	var out []*entity.SaleDetail
	err := r.h.read(func(st *state) error {
		for _, d := range st.details {
			if d.SaleID != saleID {
				continue
			}
			cp := *d
			if p, ok := st.products[d.ProductID]; ok {
				cp.ProductName = p.Name
				cp.SKU = p.SKU
			}
			if d.ProductItemID != nil {
				if it, ok := st.items[*d.ProductItemID]; ok {
					cp.SerialNumber = it.SerialNumber
					if it.SKU != "" {
						cp.SKU = it.SKU
					}
				}
			}
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.h.read(func(st *state) error {
		ordered := make([]*entity.Sale, 0, len(st.saleOrder))
		for i := len(st.saleOrder) - 1; i >= 0; i-- {
			ordered = append(ordered, st.sales[st.saleOrder[i]])
		}
		for _, s := range page(ordered, limit, offset) {
			cp := *s
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) Totals(_ context.Context, from, to time.Time) (repository.SalesTotals, error) {
	totals := repository.SalesTotals{Revenue: decimal.Zero, COGS: decimal.Zero}
	err := r.h.read(func(st *state) error {
		in := map[string]bool{}
		for id, s := range st.sales {
			if !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
				in[id] = true
				totals.Count++
				totals.Revenue = totals.Revenue.Add(s.TotalAmount)
			}
		}
		for _, d := range st.details {
			if in[d.SaleID] {
				totals.COGS = totals.COGS.Add(d.UnitCost.Mul(decimal.NewFromInt(int64(d.Quantity))))
			}
		}
		return nil
	})
	return totals, err
}
