package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// SalesTotals agregados de ventas en un periodo.
type SalesTotals struct {
	Count   int
	Revenue decimal.Decimal // Σ totalAmount
	COGS    decimal.Decimal // Σ costo unitario × cantidad de los detalles
}

// SaleRepository puerto de persistencia de ventas.
type SaleRepository interface {
	// Create falla con domain.ErrDuplicate si la clave de idempotencia ya existe.
	Create(ctx context.Context, sale *entity.Sale) error
	CreateDetail(ctx context.Context, detail *entity.SaleDetail) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error)
	ListDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
	Totals(ctx context.Context, from, to time.Time) (SalesTotals, error)
}
