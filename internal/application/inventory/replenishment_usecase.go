package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// idealStockFactor el stock ideal es este múltiplo del umbral de stock bajo.
const idealStockFactor = 2

// ReplenishmentUseCase genera la lista de reposición: productos con stock bajo,
// cantidad sugerida y prioridad según margen y ventas recientes.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	stock    repository.StockRepository
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository, stock repository.StockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, stock: stock, now: time.Now}
}

// GenerateReplenishmentList devuelve los productos bajo el umbral con la cantidad
// sugerida de pedido, ordenados por margen y luego por volumen de ventas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	summaries, err := uc.stock.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	sold, err := uc.stock.UnitsOutSince(ctx, uc.now().AddDate(0, 0, -90))
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	ideal := inventory.LowStockThreshold * idealStockFactor

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, s := range summaries {
		if !s.LowStock {
			continue
		}
		qty := ideal - s.OnHand
		if qty < 0 {
			qty = 0
		}
		var marginPct decimal.Decimal
		product, err := uc.products.GetByID(ctx, s.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil && product.Price.IsPositive() {
			marginPct = inventory.Margin(product.Price, s.AvgUnitCost).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:           s.ProductID,
			SKU:                 s.SKU,
			ProductName:         s.ProductName,
			IsSerialized:        s.IsSerialized,
			CurrentStock:        s.OnHand,
			IdealStock:          ideal,
			SuggestedOrderQty:   qty,
			UnitCost:            s.AvgUnitCost,
			EstimatedOrderCost:  s.AvgUnitCost.Mul(decimal.NewFromInt(int64(qty))),
			GrossMarginPct:      marginPct,
			UnitsSoldLast90Days: sold[s.ProductID],
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		return a.CurrentStock < b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
