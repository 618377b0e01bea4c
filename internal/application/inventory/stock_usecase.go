package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

const (
	cacheKeySummary = "stock:summary"
	cacheKeyStats   = "stock:stats"
)

// StockUseCase consultas del agregador de stock y del libro de movimientos.
// Son lecturas puras: no escriben nada.
type StockUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	cache    Cache
}

// NewStockUseCase construye el caso de uso. repos opera fuera de transacción.
func NewStockUseCase(txRunner repository.TxRunner, repos repository.Repos, cache Cache) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, repos: repos, cache: cache}
}

// ComputeStock deriva onHand, costo promedio y stock bajo de un producto desde
// una única instantánea. Nunca se cachea.
func (uc *StockUseCase) ComputeStock(ctx context.Context, productID string) (*dto.StockSummaryResponse, error) {
	var summary entity.StockSummary
	err := uc.txRunner.RunReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		summary, err = ComputeStockTx(ctx, repos, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := toStockSummaryResponse(summary)
	return &resp, nil
}

// ComputeStockTx calcula el stock con los repos de una transacción ya abierta.
// El POS lo usa después de bloquear el producto.
func ComputeStockTx(ctx context.Context, repos repository.Repos, productID string) (entity.StockSummary, error) {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return entity.StockSummary{}, err
	}
	if product == nil {
		return entity.StockSummary{}, domain.NotFound("producto", productID)
	}
	return SummarizeProduct(ctx, repos, product)
}

// SummarizeProduct resumen de stock de un producto ya cargado.
func SummarizeProduct(ctx context.Context, repos repository.Repos, product *entity.Product) (entity.StockSummary, error) {
	totals, err := repos.Stock.LedgerTotals(ctx, product.ID)
	if err != nil {
		return entity.StockSummary{}, err
	}
	available := 0
	if product.IsSerialized {
		if available, err = repos.Items.CountAvailable(ctx, product.ID); err != nil {
			return entity.StockSummary{}, err
		}
	}
	return inventory.Summarize(product, totals, available), nil
}

// ListStockSummary resumen de stock de todos los productos.
func (uc *StockUseCase) ListStockSummary(ctx context.Context) ([]dto.StockSummaryResponse, error) {
	return cached(ctx, uc.cache, cacheKeySummary, func(ctx context.Context) ([]dto.StockSummaryResponse, error) {
		list, err := uc.repos.Stock.Summaries(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.StockSummaryResponse, 0, len(list))
		for _, s := range list {
			out = append(out, toStockSummaryResponse(s))
		}
		return out, nil
	})
}

// InventoryStats valor recibido, unidades en mano y productos con stock bajo.
func (uc *StockUseCase) InventoryStats(ctx context.Context) (*dto.InventoryStatsResponse, error) {
	stats, err := cached(ctx, uc.cache, cacheKeyStats, func(ctx context.Context) (dto.InventoryStatsResponse, error) {
		var (
			summaries []entity.StockSummary
			value     decimal.Decimal
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			summaries, err = uc.repos.Stock.Summaries(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			value, err = uc.repos.Stock.TotalReceivedValue(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return dto.InventoryStatsResponse{}, err
		}
		stats := dto.InventoryStatsResponse{TotalValue: value, ProductCount: len(summaries)}
		for _, s := range summaries {
			stats.TotalUnits += s.OnHand
			if s.LowStock {
				stats.LowStockCount++
			}
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListMovements libro de movimientos, más recientes primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Movements.List(ctx, repository.MovementFilter{
		ProductID: productID,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListSerials unidades serializadas de un producto, más recientes primero.
func (uc *StockUseCase) ListSerials(ctx context.Context, productID string) ([]dto.ProductItemResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", productID)
	}
	list, err := uc.repos.Items.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toProductItemResponse(it))
	}
	return out, nil
}

func toStockSummaryResponse(s entity.StockSummary) dto.StockSummaryResponse {
	status := "ok"
	if s.LowStock {
		status = "low"
	}
	return dto.StockSummaryResponse{
		ProductID:    s.ProductID,
		ProductName:  s.ProductName,
		SKU:          s.SKU,
		IsSerialized: s.IsSerialized,
		OnHand:       s.OnHand,
		AvgUnitCost:  s.AvgUnitCost,
		LowStock:     s.LowStock,
		Status:       status,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		ProductItemID: m.ProductItemID,
		SerialNumber:  m.SerialNumber,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

func toProductItemResponse(it *entity.ProductItem) dto.ProductItemResponse {
	return dto.ProductItemResponse{
		ID:           it.ID,
		ProductID:    it.ProductID,
		SKU:          it.SKU,
		SerialNumber: it.SerialNumber,
		Status:       string(it.Status),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
