package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.ProductItemRepository = (*ProductItemRepo)(nil)

// ProductItemRepo unidades serializadas en memoria.
type ProductItemRepo struct{ h handle }

func (r *ProductItemRepo) Create(_ context.Context, item *entity.ProductItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	return r.h.write(func(st *state) error {
		if item.SerialNumber != "" {
			for _, existing := range st.items {
				if existing.SerialNumber == item.SerialNumber {
					return fmt.Errorf("%w: número de serie %s ya registrado", domain.ErrDuplicate, item.SerialNumber)
				}
			}
		}
		cp := *item
		st.items[item.ID] = &cp
		st.itemOrder = append(st.itemOrder, item.ID)
		return nil
	})
}

func (r *ProductItemRepo) GetByID(_ context.Context, id string) (*entity.ProductItem, error) {
	var out *entity.ProductItem
	err := r.h.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			cp := *it
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ProductItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductItem, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductItemRepo) FindByCode(_ context.Context, code string) (*entity.ProductItem, error) {
	var out *entity.ProductItem
	err := r.h.read(func(st *state) error {
		for _, id := range st.itemOrder {
			it := st.items[id]
			if (it.SKU != "" && it.SKU == code) || (it.SerialNumber != "" && it.SerialNumber == code) {
				cp := *it
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductItemRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductItem, error) {
	var out []*entity.ProductItem
	err := r.h.read(func(st *state) error {
		for i := len(st.itemOrder) - 1; i >= 0; i-- {
			it := st.items[st.itemOrder[i]]
			if it.ProductID == productID {
				cp := *it
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductItemRepo) CountAvailable(_ context.Context, productID string) (int, error) {
	n := 0
	err := r.h.read(func(st *state) error {
		n = countAvailable(st, productID)
		return nil
	})
	return n, err
}

func countAvailable(st *state, productID string) int {
	n := 0
	for _, it := range st.items {
		if it.ProductID == productID && it.Status == entity.ItemAvailable {
			n++
		}
	}
	return n
}

func (r *ProductItemRepo) UpdateStatus(_ context.Context, item *entity.ProductItem) error {
	return r.h.write(func(st *state) error {
		existing, ok := st.items[item.ID]
		if !ok {
			return domain.NotFound("unidad", item.ID)
		}
		existing.Status = item.Status
		existing.UpdatedAt = item.UpdatedAt
		return nil
	})
}
