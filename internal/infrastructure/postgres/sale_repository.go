package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y detalles sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, user_id, total_amount, status, COALESCE(idempotency_key, ''), created_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.UserID, &s.TotalAmount, &s.Status, &s.IdempotencyKey, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la cabecera. Una clave de idempotencia repetida devuelve ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, user_id, total_amount, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.UserID, sale.TotalAmount, sale.Status, sale.IdempotencyKey, sale.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: clave de idempotencia %s", domain.ErrDuplicate, sale.IdempotencyKey)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateDetail(ctx context.Context, d *entity.SaleDetail) error {
	query := `
		INSERT INTO sale_details (id, sale_id, product_id, product_item_id, price, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.SaleID, d.ProductID, d.ProductItemID, d.Price, d.Quantity, d.UnitCost)
	if err != nil {
		return fmt.Errorf("insert sale detail: %w", err)
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale", `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	if key == "" {
		return nil, nil
	}
	return r.getOne(ctx, "get sale by idempotency key", `SELECT `+saleColumns+` FROM sales WHERE idempotency_key = $1`, key)
}

// ListDetails líneas en el orden en que se registraron, con producto y serial.
func (r *SaleRepo) ListDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error) {
	query := `
		SELECT d.id, d.sale_id, d.product_id, d.product_item_id, d.price, d.quantity, d.unit_cost,
			p.name, COALESCE(NULLIF(i.sku, ''), p.sku), COALESCE(i.serial_number, '')
		FROM sale_details d
		JOIN products p ON p.id = d.product_id
		LEFT JOIN product_items i ON i.id = d.product_item_id
		WHERE d.sale_id = $1
		ORDER BY d.seq`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale details: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ProductID, &d.ProductItemID, &d.Price, &d.Quantity, &d.UnitCost,
			&d.ProductName, &d.SKU, &d.SerialNumber); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// List ventas más recientes primero.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY seq DESC LIMIT $1 OFFSET $2`, nullLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Totals ingresos y costo de lo vendido en [from, to).
func (r *SaleRepo) Totals(ctx context.Context, from, to time.Time) (repository.SalesTotals, error) {
	var t repository.SalesTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0),
			COALESCE((SELECT SUM(d.unit_cost * d.quantity)
				FROM sale_details d JOIN sales s2 ON s2.id = d.sale_id
				WHERE s2.created_at >= $1 AND s2.created_at < $2), 0)
		FROM sales WHERE created_at >= $1 AND created_at < $2`, from, to,
	).Scan(&t.Count, &t.Revenue, &t.COGS)
	if err != nil {
		return repository.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return t, nil
}
