package repository

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// ProductItemRepository puerto del registro de unidades serializadas.
// No hay Delete: las unidades nunca se eliminan.
type ProductItemRepository interface {
	// Create falla con domain.ErrDuplicate si el número de serie ya existe.
	Create(ctx context.Context, item *entity.ProductItem) error
	GetByID(ctx context.Context, id string) (*entity.ProductItem, error)
	// GetForUpdate bloquea la fila de la unidad hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.ProductItem, error)
	// FindByCode coincidencia exacta por sku o número de serie.
	FindByCode(ctx context.Context, code string) (*entity.ProductItem, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductItem, error)
	CountAvailable(ctx context.Context, productID string) (int, error)
	UpdateStatus(ctx context.Context, item *entity.ProductItem) error
}
