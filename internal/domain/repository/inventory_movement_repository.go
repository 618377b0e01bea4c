package repository

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// MovementFilter filtros para listar el libro de movimientos.
type MovementFilter struct {
	ProductID string // vacío = todos
	Limit     int    // 0 = sin límite
	Offset    int
}

// InventoryMovementRepository puerto del libro de movimientos (solo inserción).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// FirstInByItem primera entrada registrada para una unidad serializada.
	FirstInByItem(ctx context.Context, productItemID string) (*entity.InventoryMovement, error)
	// List más recientes primero, con nombre de producto y serial.
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
}
