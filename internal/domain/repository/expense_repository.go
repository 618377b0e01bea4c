package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// ExpenseRepository puerto de persistencia de gastos y sus categorías.
type ExpenseRepository interface {
	CreateCategory(ctx context.Context, category *entity.ExpenseCategory) error
	GetCategory(ctx context.Context, id string) (*entity.ExpenseCategory, error)
	ListCategories(ctx context.Context) ([]*entity.ExpenseCategory, error)
	Create(ctx context.Context, expense *entity.Expense) error
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Expense, error)
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
