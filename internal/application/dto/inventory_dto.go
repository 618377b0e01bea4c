package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest body para POST /api/inventory/receipts.
// Serials es obligatorio (uno por unidad) si el producto es serializado.
type ReceiveStockRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Serials   []string        `json:"serials,omitempty" validate:"omitempty,dive,max=100"`
}

// ReceivedItemDTO unidad creada en una recepción (para imprimir etiquetas).
type ReceivedItemDTO struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serial_number"`
}

// ReceiptProductDTO producto recibido a granel.
type ReceiptProductDTO struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// Tipos de resultado de una recepción.
const (
	ReceiptTypeSerialized = "serialized"
	ReceiptTypeGeneric    = "generic"
)

// ReceiptResponse resultado de una recepción: lista de unidades creadas o
// producto y cantidad para granel.
type ReceiptResponse struct {
	Type     string             `json:"type"`
	Items    []ReceivedItemDTO  `json:"items,omitempty"`
	Product  *ReceiptProductDTO `json:"product,omitempty"`
	Quantity int                `json:"quantity"`
}

// StockSummaryResponse stock derivado de un producto.
type StockSummaryResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku,omitempty"`
	IsSerialized bool            `json:"is_serialized"`
	OnHand       int             `json:"on_hand"`
	AvgUnitCost  decimal.Decimal `json:"avg_unit_cost"`
	LowStock     bool            `json:"low_stock"`
	Status       string          `json:"status"` // low | ok
}

// InventoryStatsResponse indicadores globales del inventario.
type InventoryStatsResponse struct {
	TotalValue    decimal.Decimal `json:"total_value"` // Σ entradas × costo
	TotalUnits    int             `json:"total_units"`
	LowStockCount int             `json:"low_stock_count"`
	ProductCount  int             `json:"product_count"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	ProductName   string           `json:"product_name"`
	ProductItemID *string          `json:"product_item_id,omitempty"`
	SerialNumber  string           `json:"serial_number,omitempty"`
	Type          string           `json:"type"`
	Quantity      int              `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason        string           `json:"reason"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ProductItemResponse unidad serializada.
type ProductItemResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	SKU          string    `json:"sku,omitempty"`
	SerialNumber string    `json:"serial_number"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateItemStatusRequest body para PATCH /api/inventory/items/:id/status.
// La venta de una unidad solo ocurre a través del POS.
type UpdateItemStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=defective reserved"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto con stock bajo.
type ReplenishmentSuggestionDTO struct {
	ProductID           string          `json:"product_id"`
	SKU                 string          `json:"sku,omitempty"`
	ProductName         string          `json:"product_name"`
	IsSerialized        bool            `json:"is_serialized"`
	CurrentStock        int             `json:"current_stock"`
	IdealStock          int             `json:"ideal_stock"`
	SuggestedOrderQty   int             `json:"suggested_order_qty"`
	UnitCost            decimal.Decimal `json:"unit_cost"` // costo promedio de entradas
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days int             `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
