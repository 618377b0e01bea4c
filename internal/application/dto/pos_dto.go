package dto

import "github.com/shopspring/decimal"

// SaleLineRequest línea de venta. Quantity 0 se interpreta como 1.
type SaleLineRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	ProductItemID *string         `json:"product_item_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity" validate:"min=0"`
	IsSerialized  bool            `json:"is_serialized"`
}

// ProcessSaleRequest body para POST /api/pos/sales.
type ProcessSaleRequest struct {
	Items       []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
}

// ProcessSaleResponse venta confirmada. Replayed indica que la clave de
// idempotencia ya había sido usada y se devuelve la venta original.
type ProcessSaleResponse struct {
	SaleID   string `json:"sale_id"`
	Replayed bool   `json:"replayed,omitempty"`
}

// SearchProductResponse resultado de un escaneo o búsqueda en el POS.
type SearchProductResponse struct {
	ProductID     string          `json:"product_id"`
	ProductItemID *string         `json:"product_item_id,omitempty"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	SerialNumber  string          `json:"serial_number,omitempty"`
	Price         decimal.Decimal `json:"price"`
	IsSerialized  bool            `json:"is_serialized"`
	AvailableQty  int             `json:"available_qty"`
	AvgUnitCost   decimal.Decimal `json:"avg_unit_cost"`
	Status        string          `json:"status,omitempty"` // estado de la unidad si se encontró por serial
}
