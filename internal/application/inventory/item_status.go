package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// ItemStatusUseCase cambios de estado de unidades pedidos por colaboradores
// externos (reservas, garantías). La venta de una unidad solo la hace el POS.
type ItemStatusUseCase struct {
	txRunner repository.TxRunner
	cache    Cache
	log      *logger.Logger
}

// NewItemStatusUseCase construye el caso de uso.
func NewItemStatusUseCase(txRunner repository.TxRunner, cache Cache, log *logger.Logger) *ItemStatusUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemStatusUseCase{txRunner: txRunner, cache: cache, log: log.Component("item_status")}
}

// UpdateStatus aplica la transición si la tabla de estados la permite.
func (uc *ItemStatusUseCase) UpdateStatus(ctx context.Context, itemID string, in dto.UpdateItemStatusRequest) (*dto.ProductItemResponse, error) {
	next := entity.ItemStatus(in.Status)
	if !next.Valid() {
		return nil, domain.Invalid("estado %q desconocido", in.Status)
	}
	if next == entity.ItemSold {
		return nil, domain.Invalid("una unidad solo se marca como vendida a través de una venta")
	}

	var updated *entity.ProductItem
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		item, err := repos.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("unidad", itemID)
		}
		if err := item.TransitionTo(next, time.Now()); err != nil {
			return err
		}
		if err := repos.Items.UpdateStatus(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, uc.log)
	uc.log.Info().Str("item_id", itemID).Str("status", string(next)).Msg("estado de unidad actualizado")
	resp := toProductItemResponse(updated)
	return &resp, nil
}
