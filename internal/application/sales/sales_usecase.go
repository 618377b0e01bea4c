// Package sales consultas sobre ventas confirmadas: listado, detalle,
// indicadores del mes y comprobante en PDF.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// periodLayout formato de periodo para los indicadores (YYYY-MM).
const periodLayout = "2006-01"

// ReceiptRenderer genera el comprobante de una venta.
type ReceiptRenderer interface {
	RenderReceipt(sale *dto.SaleWithDetailsResponse) ([]byte, error)
}

// SalesUseCase consultas de ventas.
type SalesUseCase struct {
	sales    repository.SaleRepository
	expenses repository.ExpenseRepository
	receipts ReceiptRenderer
	now      func() time.Time
}

// NewSalesUseCase construye el caso de uso. receipts puede ser nil si no se
// expone el comprobante.
func NewSalesUseCase(sales repository.SaleRepository, expenses repository.ExpenseRepository, receipts ReceiptRenderer) *SalesUseCase {
	return &SalesUseCase{sales: sales, expenses: expenses, receipts: receipts, now: time.Now}
}

// List ventas, más recientes primero.
func (uc *SalesUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetWithDetails venta con sus líneas, nombre de producto, sku y serial.
func (uc *SalesUseCase) GetWithDetails(ctx context.Context, id string) (*dto.SaleWithDetailsResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", id)
	}
	details, err := uc.sales.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleWithDetailsResponse{
		SaleResponse: toSaleResponse(sale),
		Details:      make([]dto.SaleDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.SaleDetailResponse{
			ID:            d.ID,
			ProductID:     d.ProductID,
			ProductName:   d.ProductName,
			SKU:           d.SKU,
			ProductItemID: d.ProductItemID,
			SerialNumber:  d.SerialNumber,
			Price:         d.Price,
			Quantity:      d.Quantity,
			Subtotal:      d.Subtotal(),
		})
	}
	return resp, nil
}

// Receipt comprobante PDF de una venta.
func (uc *SalesUseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("%w: generador de comprobantes no configurado", domain.ErrStorage)
	}
	sale, err := uc.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.receipts.RenderReceipt(sale)
}

// MonthlyKPIs ingresos, costo de lo vendido y gastos del periodo YYYY-MM
// (vacío = mes en curso).
func (uc *SalesUseCase) MonthlyKPIs(ctx context.Context, period string) (*dto.SalesKPIResponse, error) {
	from, to, err := uc.periodBounds(period)
	if err != nil {
		return nil, err
	}

	var (
		totals   repository.SalesTotals
		expenses decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.sales.Totals(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = uc.expenses.SumBetween(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gross := totals.Revenue.Sub(totals.COGS)
	return &dto.SalesKPIResponse{
		Period:      from.Format(periodLayout),
		SalesCount:  totals.Count,
		Revenue:     totals.Revenue,
		COGS:        totals.COGS,
		GrossProfit: gross,
		Expenses:    expenses,
		NetProfit:   gross.Sub(expenses),
	}, nil
}

func (uc *SalesUseCase) periodBounds(period string) (time.Time, time.Time, error) {
	now := uc.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if period != "" {
		t, err := time.ParseInLocation(periodLayout, period, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.Invalid("periodo %q inválido, use YYYY-MM", period)
		}
		from = t
	}
	return from, from.AddDate(0, 1, 0), nil
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		TotalAmount: s.TotalAmount,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
	}
}
