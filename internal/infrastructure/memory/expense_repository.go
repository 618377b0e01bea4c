package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo gastos en memoria.
type ExpenseRepo struct{ h handle }

func (r *ExpenseRepo) CreateCategory(_ context.Context, c *entity.ExpenseCategory) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.h.write(func(st *state) error {
		cp := *c
		st.expCats[c.ID] = &cp
		return nil
	})
}

func (r *ExpenseRepo) GetCategory(_ context.Context, id string) (*entity.ExpenseCategory, error) {
	var out *entity.ExpenseCategory
	err := r.h.read(func(st *state) error {
		if c, ok := st.expCats[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ExpenseRepo) ListCategories(_ context.Context) ([]*entity.ExpenseCategory, error) {
	var out []*entity.ExpenseCategory
	err := r.h.read(func(st *state) error {
		for _, c := range st.expCats {
			cp := *c
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return r.h.write(func(st *state) error {
		cp := *e
		st.expenses = append(st.expenses, &cp)
		return nil
	})
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func (r *ExpenseRepo) List(_ context.Context, from, to *time.Time, limit, offset int) ([]*entity.Expense, error) {
	var out []*entity.Expense
	err := r.h.read(func(st *state) error {
		var matched []*entity.Expense
		for _, e := range st.expenses {
			if inRange(e.Date, from, to) {
				matched = append(matched, e)
			}
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
		for _, e := range page(matched, limit, offset) {
			cp := *e
			if c, ok := st.expCats[e.CategoryID]; ok {
				cp.CategoryName = c.Name
			}
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *ExpenseRepo) SumBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.h.read(func(st *state) error {
		for _, e := range st.expenses {
			if inRange(e.Date, &from, &to) {
				total = total.Add(e.Amount)
			}
		}
		return nil
	})
	return total, err
}
