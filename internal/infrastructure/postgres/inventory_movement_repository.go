package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo inserta: no hay UPDATE ni DELETE sobre inventory_movements.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, product_id, product_item_id, type, quantity, unit_cost, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.ProductItemID, movement.Type,
		movement.Quantity, movement.UnitCost, movement.Reason, movement.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto", movement.ProductID)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

const movementColumns = `m.id, m.product_id, m.product_item_id, m.type, m.quantity, m.unit_cost, m.reason, m.created_at`

// FirstInByItem primera entrada de una unidad; su costo es la base del margen.
func (r *InventoryMovementRepo) FirstInByItem(ctx context.Context, productItemID string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements m
		WHERE m.product_item_id = $1 AND m.type = $2
		ORDER BY m.seq LIMIT 1`
	var m entity.InventoryMovement
	err := r.q.QueryRow(ctx, query, productItemID, entity.MovementTypeIN).Scan(
		&m.ID, &m.ProductID, &m.ProductItemID, &m.Type, &m.Quantity, &m.UnitCost, &m.Reason, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first in by item: %w", err)
	}
	return &m, nil
}

// List más recientes primero, con nombre de producto y serial.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `, p.name, COALESCE(i.serial_number, '')
		FROM inventory_movements m
		JOIN products p ON p.id = m.product_id
		LEFT JOIN product_items i ON i.id = m.product_item_id
		WHERE ($1 = '' OR m.product_id = $1)
		ORDER BY m.seq DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, f.ProductID, nullLimit(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.ProductItemID, &m.Type, &m.Quantity, &m.UnitCost, &m.Reason, &m.CreatedAt,
			&m.ProductName, &m.SerialNumber,
		); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
