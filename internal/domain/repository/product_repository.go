package repository

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	// Serializa ventas y recepciones concurrentes sobre el mismo producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// GetByName busca por nombre exacto sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	// SearchByName primera coincidencia parcial por nombre (orden alfabético).
	SearchByName(ctx context.Context, term string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// Delete falla con domain.ErrConflict si el producto tiene movimientos o unidades.
	Delete(ctx context.Context, id string) error
}
