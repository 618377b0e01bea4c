package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo gastos y categorías de gasto sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

func (r *ExpenseRepo) CreateCategory(ctx context.Context, c *entity.ExpenseCategory) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO expense_categories (id, name, created_at) VALUES ($1, $2, $3)`, c.ID, c.Name, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert expense category: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) GetCategory(ctx context.Context, id string) (*entity.ExpenseCategory, error) {
	var c entity.ExpenseCategory
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM expense_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense category: %w", err)
	}
	return &c, nil
}

func (r *ExpenseRepo) ListCategories(ctx context.Context) ([]*entity.ExpenseCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM expense_categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpenseCategory
	for rows.Next() {
		var c entity.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, category_id, amount, description, payment_method, date, related_product_item_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CategoryID, e.Amount, e.Description, e.PaymentMethod, e.Date,
		e.RelatedProductItemID, e.UserID, e.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, constraintName(err))
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// List gastos en [from, to) por fecha descendente.
func (r *ExpenseRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT e.id, e.category_id, e.amount, e.description, e.payment_method, e.date,
			e.related_product_item_id, e.user_id, e.created_at, c.name
		FROM expenses e JOIN expense_categories c ON c.id = e.category_id
		WHERE ($1::timestamptz IS NULL OR e.date >= $1) AND ($2::timestamptz IS NULL OR e.date < $2)
		ORDER BY e.date DESC, e.id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, from, to, nullLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.Amount, &e.Description, &e.PaymentMethod, &e.Date,
			&e.RelatedProductItemID, &e.UserID, &e.CreatedAt, &e.CategoryName); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumBetween Σ montos en [from, to).
func (r *ExpenseRepo) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date >= $1 AND date < $2`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}
