package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ h handle }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.ID)
		}
		if err := checkUniqueName(st, p); err != nil {
			return err
		}
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

// GetForUpdate el candado global de la transacción ya serializa el acceso.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.Name, name) {
				out = copyProduct(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) SearchByName(_ context.Context, term string) (*entity.Product, error) {
	var out *entity.Product
	needle := strings.ToLower(term)
	err := r.h.read(func(st *state) error {
		for _, p := range sortedProducts(st) {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				out = copyProduct(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.NotFound("producto", p.ID)
		}
		if err := checkUniqueName(st, p); err != nil {
			return err
		}
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range page(sortedProducts(st), limit, offset) {
			out = append(out, copyProduct(p))
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.NotFound("producto", id)
		}
		for _, m := range st.movements {
			if m.ProductID == id {
				return fmt.Errorf("%w: el producto tiene movimientos de inventario", domain.ErrConflict)
			}
		}
		for _, it := range st.items {
			if it.ProductID == id {
				return fmt.Errorf("%w: el producto tiene unidades registradas", domain.ErrConflict)
			}
		}
		delete(st.products, id)
		return nil
	})
}

func checkUniqueName(st *state, p *entity.Product) error {
	for _, existing := range st.products {
		if existing.ID != p.ID && strings.EqualFold(existing.Name, p.Name) {
			return fmt.Errorf("%w: ya existe un producto llamado %s", domain.ErrDuplicate, existing.Name)
		}
	}
	return nil
}

func sortedProducts(st *state) []*entity.Product {
	list := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ h handle }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return r.h.write(func(st *state) error {
		for _, existing := range st.categories {
			if strings.EqualFold(existing.Name, c.Name) {
				return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, c.Name)
			}
		}
		st.categories[c.ID] = copyCategory(c)
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.h.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = copyCategory(c)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.NotFound("categoría", c.ID)
		}
		st.categories[c.ID] = copyCategory(c)
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.h.read(func(st *state) error {
		for _, c := range st.categories {
			out = append(out, copyCategory(c))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}
