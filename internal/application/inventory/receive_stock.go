package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// ReceiveStockUseCase registra entradas de mercancía de forma atómica: unidades
// serializadas con una entrada IN por unidad, o una sola entrada IN a granel.
type ReceiveStockUseCase struct {
	txRunner repository.TxRunner
	cache    Cache
	log      *logger.Logger
	now      func() time.Time
}

// NewReceiveStockUseCase construye el caso de uso.
func NewReceiveStockUseCase(txRunner repository.TxRunner, cache Cache, log *logger.Logger) *ReceiveStockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReceiveStockUseCase{txRunner: txRunner, cache: cache, log: log.Component("receiving"), now: time.Now}
}

// ReceiveStock bloquea el producto, valida los seriales y crea unidades y
// movimientos en una transacción. Si algo falla no queda ninguna fila.
func (uc *ReceiveStockUseCase) ReceiveStock(ctx context.Context, in dto.ReceiveStockRequest) (*dto.ReceiptResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("la cantidad debe ser mayor a cero")
	}
	if !in.UnitCost.IsPositive() {
		return nil, domain.Invalid("el costo unitario debe ser mayor a cero")
	}
	if !inventory.FitsPlaces(in.UnitCost, inventory.CostPlaces) {
		return nil, domain.Invalid("el costo unitario admite como máximo %d decimales", inventory.CostPlaces)
	}
	serials := make([]string, 0, len(in.Serials))
	for _, s := range in.Serials {
		serials = append(serials, strings.TrimSpace(s))
	}

	var resp *dto.ReceiptResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto", in.ProductID)
		}
		now := uc.now()
		if product.IsSerialized {
			resp, err = uc.receiveSerialized(ctx, repos, product, serials, in, now)
			return err
		}
		resp, err = uc.receiveBulk(ctx, repos, product, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, uc.log)
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("type", resp.Type).
		Int("quantity", resp.Quantity).
		Str("unit_cost", in.UnitCost.String()).
		Msg("mercancía recibida")
	return resp, nil
}

func (uc *ReceiveStockUseCase) receiveSerialized(
	ctx context.Context,
	repos repository.Repos,
	product *entity.Product,
	serials []string,
	in dto.ReceiveStockRequest,
	now time.Time,
) (*dto.ReceiptResponse, error) {
	if len(serials) != in.Quantity {
		return nil, domain.Invalid("se recibieron %d seriales para una cantidad de %d", len(serials), in.Quantity)
	}
	seen := make(map[string]struct{}, len(serials))
	for _, s := range serials {
		if s == "" {
			return nil, domain.Invalid("los seriales no pueden estar vacíos")
		}
		if _, dup := seen[s]; dup {
			return nil, domain.Invalid("serial %s repetido en la recepción", s)
		}
		seen[s] = struct{}{}
	}

	unitCost := in.UnitCost
	items := make([]dto.ReceivedItemDTO, 0, len(serials))
	for _, serial := range serials {
		item := &entity.ProductItem{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			SerialNumber: serial,
			Status:       entity.ItemAvailable,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			return nil, err
		}
		itemID := item.ID
		mov := &entity.InventoryMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			ProductItemID: &itemID,
			Type:          entity.MovementTypeIN,
			Quantity:      1,
			UnitCost:      &unitCost,
			Reason:        entity.ReasonStockReceived,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		items = append(items, dto.ReceivedItemDTO{ID: item.ID, SerialNumber: serial})
	}
	return &dto.ReceiptResponse{Type: dto.ReceiptTypeSerialized, Items: items, Quantity: len(items)}, nil
}

func (uc *ReceiveStockUseCase) receiveBulk(
	ctx context.Context,
	repos repository.Repos,
	product *entity.Product,
	in dto.ReceiveStockRequest,
	now time.Time,
) (*dto.ReceiptResponse, error) {
	unitCost := in.UnitCost
	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      entity.MovementTypeIN,
		Quantity:  in.Quantity,
		UnitCost:  &unitCost,
		Reason:    entity.ReasonStockReceived,
		CreatedAt: now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &dto.ReceiptResponse{
		Type:     dto.ReceiptTypeGeneric,
		Product:  &dto.ReceiptProductDTO{SKU: product.SKU, Name: product.Name},
		Quantity: in.Quantity,
	}, nil
}
