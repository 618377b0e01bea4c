package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías de producto; la plantilla se guarda como JSONB.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var (
		c   entity.Category
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &raw, &c.CreatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.Template); err != nil {
			return nil, fmt.Errorf("decode template: %w", err)
		}
	}
	return &c, nil
}

func encodeTemplate(t []entity.TemplateField) ([]byte, error) {
	if t == nil {
		t = []entity.TemplateField{}
	}
	return json.Marshal(t)
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	raw, err := encodeTemplate(c.Template)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO categories (id, name, template, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, raw, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT id, name, template, created_at FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	raw, err := encodeTemplate(c.Template)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `UPDATE categories SET name = $2, template = $3 WHERE id = $1`, c.ID, c.Name, raw)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("categoría", c.ID)
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, template, created_at FROM categories ORDER BY lower(name), id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
