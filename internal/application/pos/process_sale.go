// Package pos implementa el motor de ventas del punto de venta: valida y
// confirma ventas de varias líneas de forma atómica.
package pos

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// Invalidator descarta lecturas de stock en caché tras una venta.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ProcessSaleUseCase motor de ventas.
type ProcessSaleUseCase struct {
	txRunner repository.TxRunner
	sales    repository.SaleRepository
	cache    Invalidator
	log      *logger.Logger
	now      func() time.Time
}

// NewProcessSaleUseCase construye el caso de uso. sales opera fuera de
// transacción y solo se usa para resolver claves de idempotencia.
func NewProcessSaleUseCase(txRunner repository.TxRunner, sales repository.SaleRepository, cache Invalidator, log *logger.Logger) *ProcessSaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProcessSaleUseCase{txRunner: txRunner, sales: sales, cache: cache, log: log.Component("pos"), now: time.Now}
}

// ProcessSale registra la cabecera, valida y aplica cada línea en el orden
// recibido y confirma todo junto. Cualquier error revierte la venta completa.
// userID vacío registra la venta sin usuario. Si idempotencyKey ya fue usada
// se devuelve la venta original sin volver a procesarla.
func (uc *ProcessSaleUseCase) ProcessSale(ctx context.Context, userID, idempotencyKey string, in dto.ProcessSaleRequest) (*dto.ProcessSaleResponse, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(idempotencyKey)
	if key != "" {
		existing, err := uc.sales.GetByIdempotencyKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &dto.ProcessSaleResponse{SaleID: existing.ID, Replayed: true}, nil
		}
	}

	var user *string
	if userID != "" {
		user = &userID
	}
	saleID := uuid.New().String()

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		now := uc.now()
		sale := &entity.Sale{
			ID:             saleID,
			UserID:         user,
			TotalAmount:    in.TotalAmount,
			Status:         entity.SaleStatusCompleted,
			IdempotencyKey: key,
			CreatedAt:      now,
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if err := lockRows(ctx, repos, in.Items); err != nil {
			return err
		}
		for i, line := range in.Items {
			if err := processLine(ctx, repos, saleID, i+1, line, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if key != "" && errors.Is(err, domain.ErrDuplicate) {
			// otra petición con la misma clave confirmó primero
			if existing, lookupErr := uc.sales.GetByIdempotencyKey(ctx, key); lookupErr == nil && existing != nil {
				return &dto.ProcessSaleResponse{SaleID: existing.ID, Replayed: true}, nil
			}
		}
		uc.log.Warn().Err(err).Int("lines", len(in.Items)).Msg("venta rechazada")
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("invalidar caché de stock")
		}
	}
	uc.log.Info().
		Str("sale_id", saleID).
		Str("total_amount", in.TotalAmount.String()).
		Int("lines", len(in.Items)).
		Msg("venta registrada")
	return &dto.ProcessSaleResponse{SaleID: saleID}, nil
}

func validateSale(in dto.ProcessSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.Invalid("la venta debe tener al menos un ítem")
	}
	if !in.TotalAmount.IsPositive() {
		return domain.Invalid("el total de la venta debe ser mayor a cero")
	}
	if !inventory.FitsPlaces(in.TotalAmount, inventory.MoneyPlaces) {
		return domain.Invalid("el total de la venta admite como máximo %d decimales", inventory.MoneyPlaces)
	}
	for i, line := range in.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return domain.Invalid("línea %d: product_id es obligatorio", i+1)
		}
		if !line.Price.IsPositive() {
			return domain.Invalid("línea %d: el precio debe ser mayor a cero", i+1)
		}
		if !inventory.FitsPlaces(line.Price, inventory.MoneyPlaces) {
			return domain.Invalid("línea %d: el precio admite como máximo %d decimales", i+1, inventory.MoneyPlaces)
		}
		if line.Quantity < 0 {
			return domain.Invalid("línea %d: la cantidad no puede ser negativa", i+1)
		}
	}
	return nil
}

// lockRows bloquea productos y luego unidades, cada grupo en orden de id, para
// que dos ventas concurrentes tomen los candados en el mismo orden. Las filas
// inexistentes se reportan al procesar su línea.
func lockRows(ctx context.Context, repos repository.Repos, lines []dto.SaleLineRequest) error {
	var productIDs, itemIDs []string
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
		if l.ProductItemID != nil && *l.ProductItemID != "" {
			itemIDs = append(itemIDs, *l.ProductItemID)
		}
	}
	slices.Sort(productIDs)
	slices.Sort(itemIDs)
	for _, id := range slices.Compact(productIDs) {
		if _, err := repos.Products.GetForUpdate(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range slices.Compact(itemIDs) {
		if _, err := repos.Items.GetForUpdate(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func processLine(ctx context.Context, repos repository.Repos, saleID string, n int, line dto.SaleLineRequest, now time.Time) error {
	qty := line.Quantity
	if qty == 0 {
		qty = 1
	}
	product, err := repos.Products.GetByID(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("producto", line.ProductID)
	}
	if line.IsSerialized != product.IsSerialized {
		return domain.Invalid("línea %d: is_serialized no coincide con el producto %s", n, product.Name)
	}

	var (
		cost   decimal.Decimal
		item   *entity.ProductItem
		itemID *string
	)
	if product.IsSerialized {
		if line.ProductItemID == nil || *line.ProductItemID == "" {
			return domain.Invalid("línea %d: product_item_id es obligatorio para productos serializados", n)
		}
		if qty != 1 {
			return domain.Invalid("línea %d: una unidad serializada se vende de a una", n)
		}
		item, err = repos.Items.GetForUpdate(ctx, *line.ProductItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("unidad", *line.ProductItemID)
		}
		if item.ProductID != product.ID {
			return domain.Invalid("línea %d: la unidad %s no pertenece al producto %s", n, item.SerialNumber, product.Name)
		}
		if err := item.TransitionTo(entity.ItemSold, now); err != nil {
			return err
		}
		first, err := repos.Movements.FirstInByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if first != nil && first.UnitCost != nil {
			cost = *first.UnitCost
		}
		itemID = &item.ID
	} else {
		totals, err := repos.Stock.LedgerTotals(ctx, product.ID)
		if err != nil {
			return err
		}
		if onHand := totals.OnHand(); onHand < qty {
			return &domain.InsufficientStockError{ProductID: product.ID, Requested: qty, Available: onHand}
		}
		cost = totals.AvgUnitCost()
	}

	if err := inventory.CheckMargin(product.ID, line.Price, cost, inventory.MinMarginFor(product.IsSerialized)); err != nil {
		return fmt.Errorf("línea %d: %w", n, err)
	}

	detail := &entity.SaleDetail{
		ID:            uuid.New().String(),
		SaleID:        saleID,
		ProductID:     product.ID,
		ProductItemID: itemID,
		Price:         line.Price,
		Quantity:      qty,
		UnitCost:      cost,
	}
	if err := repos.Sales.CreateDetail(ctx, detail); err != nil {
		return err
	}
	if item != nil {
		if err := repos.Items.UpdateStatus(ctx, item); err != nil {
			return err
		}
	}
	price := line.Price
	return repos.Movements.Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		ProductItemID: itemID,
		Type:          entity.MovementTypeOUT,
		Quantity:      qty,
		UnitCost:      &price,
		Reason:        entity.SaleReason(saleID),
		CreatedAt:     now,
	})
}
