package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.ProductItemRepository = (*ProductItemRepo)(nil)

// ProductItemRepo registro de unidades serializadas sobre PostgreSQL.
type ProductItemRepo struct {
	q Querier
}

// NewProductItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductItemRepository(q Querier) *ProductItemRepo {
	return &ProductItemRepo{q: q}
}

const itemColumns = `id, product_id, sku, serial_number, status, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.ProductItem, error) {
	var (
		it     entity.ProductItem
		status string
	)
	if err := row.Scan(&it.ID, &it.ProductID, &it.SKU, &it.SerialNumber, &status, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Status = entity.ItemStatus(status)
	return &it, nil
}

func (r *ProductItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.ProductItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

// Create registra una unidad. Un serial ya registrado devuelve ErrDuplicate.
func (r *ProductItemRepo) Create(ctx context.Context, item *entity.ProductItem) error {
	query := `
		INSERT INTO product_items (id, product_id, sku, serial_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.ProductID, item.SKU, item.SerialNumber, string(item.Status), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de serie %s ya registrado", domain.ErrDuplicate, item.SerialNumber)
		}
		return fmt.Errorf("insert product item: %w", err)
	}
	return nil
}

func (r *ProductItemRepo) GetByID(ctx context.Context, id string) (*entity.ProductItem, error) {
	return r.getOne(ctx, "get product item", `SELECT `+itemColumns+` FROM product_items WHERE id = $1`, id)
}

// GetForUpdate bloquea la unidad hasta el fin de la transacción.
func (r *ProductItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductItem, error) {
	return r.getOne(ctx, "get product item for update", `SELECT `+itemColumns+` FROM product_items WHERE id = $1 FOR UPDATE`, id)
}

// FindByCode coincidencia exacta por sku o serial; gana la unidad más antigua.
func (r *ProductItemRepo) FindByCode(ctx context.Context, code string) (*entity.ProductItem, error) {
	query := `SELECT ` + itemColumns + ` FROM product_items
		WHERE (sku <> '' AND sku = $1) OR serial_number = $1
		ORDER BY created_at, id LIMIT 1`
	return r.getOne(ctx, "find product item", query, code)
}

func (r *ProductItemRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns+` FROM product_items WHERE product_id = $1 ORDER BY created_at DESC, id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product items: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *ProductItemRepo) CountAvailable(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM product_items WHERE product_id = $1 AND status = $2`,
		productID, string(entity.ItemAvailable)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count available items: %w", err)
	}
	return n, nil
}

// UpdateStatus persiste el estado ya validado por la entidad.
func (r *ProductItemRepo) UpdateStatus(ctx context.Context, item *entity.ProductItem) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE product_items SET status = $2, updated_at = $3 WHERE id = $1`,
		item.ID, string(item.Status), item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product item status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("unidad", item.ID)
	}
	return nil
}
