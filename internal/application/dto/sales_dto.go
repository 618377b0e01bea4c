package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleResponse cabecera de venta.
type SaleResponse struct {
	ID          string          `json:"id"`
	UserID      *string         `json:"user_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleDetailResponse línea de venta con datos del producto.
type SaleDetailResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku,omitempty"`
	ProductItemID *string         `json:"product_item_id,omitempty"`
	SerialNumber  string          `json:"serial_number,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// SaleWithDetailsResponse venta con sus líneas.
type SaleWithDetailsResponse struct {
	SaleResponse
	Details []SaleDetailResponse `json:"details"`
}

// SalesKPIResponse indicadores del mes.
type SalesKPIResponse struct {
	Period      string          `json:"period"` // YYYY-MM
	SalesCount  int             `json:"sales_count"`
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetProfit   decimal.Decimal `json:"net_profit"`
}
