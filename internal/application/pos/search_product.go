package pos

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// SearchProductUseCase resuelve un código escaneado o un texto de búsqueda.
type SearchProductUseCase struct {
	txRunner repository.TxRunner
}

// NewSearchProductUseCase construye el caso de uso.
func NewSearchProductUseCase(txRunner repository.TxRunner) *SearchProductUseCase {
	return &SearchProductUseCase{txRunner: txRunner}
}

// SearchProduct busca primero una unidad por sku o serial exacto; si no hay,
// el primer producto cuyo nombre contenga el texto. Devuelve (nil, nil) si
// nada coincide.
func (uc *SearchProductUseCase) SearchProduct(ctx context.Context, code string) (*dto.SearchProductResponse, error) {
	code = norm.NFC.String(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.Invalid("el código de búsqueda es obligatorio")
	}

	var resp *dto.SearchProductResponse
	err := uc.txRunner.RunReadOnly(ctx, func(ctx context.Context, repos repository.Repos) error {
		item, err := repos.Items.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if item != nil {
			product, err := repos.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.NotFound("producto", item.ProductID)
			}
			first, err := repos.Movements.FirstInByItem(ctx, item.ID)
			if err != nil {
				return err
			}
			itemID := item.ID
			resp = &dto.SearchProductResponse{
				ProductID:     product.ID,
				ProductItemID: &itemID,
				Name:          product.Name,
				SKU:           item.SKU,
				SerialNumber:  item.SerialNumber,
				Price:         product.Price,
				IsSerialized:  true,
				AvailableQty:  1,
				Status:        string(item.Status),
			}
			if first != nil && first.UnitCost != nil {
				resp.AvgUnitCost = *first.UnitCost
			}
			return nil
		}

		product, err := repos.Products.SearchByName(ctx, code)
		if err != nil || product == nil {
			return err
		}
		summary, err := appinventory.SummarizeProduct(ctx, repos, product)
		if err != nil {
			return err
		}
		resp = &dto.SearchProductResponse{
			ProductID:    product.ID,
			Name:         product.Name,
			SKU:          product.SKU,
			Price:        product.Price,
			IsSerialized: product.IsSerialized,
			AvailableQty: summary.OnHand,
			AvgUnitCost:  summary.AvgUnitCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
