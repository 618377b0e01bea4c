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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, sku, description, price, is_serialized, COALESCE(category_id, ''), attributes, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p     entity.Product
		attrs []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Price, &p.IsSerialized,
		&p.CategoryID, &attrs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
	}
	return &p, nil
}

func encodeAttributes(a entity.Attributes) ([]byte, error) {
	if a == nil {
		a = entity.Attributes{}
	}
	return json.Marshal(a)
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	attrs, err := encodeAttributes(product.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	query := `
		INSERT INTO products (id, name, sku, description, price, is_serialized, category_id, attributes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Description, product.Price,
		product.IsSerialized, product.CategoryID, attrs, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto llamado %s", domain.ErrDuplicate, product.Name)
		}
		if isForeignKeyViolation(err) {
			return domain.NotFound("categoría", product.CategoryID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// GetByName búsqueda exacta sin distinguir mayúsculas.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE lower(name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// SearchByName primer producto (por nombre) cuyo nombre contiene term.
func (r *ProductRepo) SearchByName(ctx context.Context, term string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE strpos(lower(name), lower($1)) > 0
		ORDER BY lower(name), id LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, term))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("search product: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente. is_serialized no se modifica.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	attrs, err := encodeAttributes(product.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	query := `
		UPDATE products SET name = $2, sku = $3, description = $4, price = $5,
			category_id = NULLIF($6, ''), attributes = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Description, product.Price,
		product.CategoryID, attrs, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto llamado %s", domain.ErrDuplicate, product.Name)
		}
		if isForeignKeyViolation(err) {
			return domain.NotFound("categoría", product.CategoryID)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", product.ID)
	}
	return nil
}

// List lista productos por nombre con paginación. limit 0 = sin límite.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY lower(name), id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, nullLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto. Si tiene movimientos, unidades o ventas devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el producto tiene movimientos o unidades registradas", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", id)
	}
	return nil
}

// nullLimit LIMIT NULL en PostgreSQL equivale a sin límite.
func nullLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
