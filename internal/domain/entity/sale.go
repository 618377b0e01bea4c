package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatusCompleted único estado con el que se registra una venta.
const SaleStatusCompleted = "completed"

// Sale cabecera de venta. TotalAmount incluye impuestos, por eso no tiene que
// coincidir con la suma de los precios de detalle.
type Sale struct {
	ID             string
	UserID         *string // nil para ventas sin usuario
	TotalAmount    decimal.Decimal
	Status         string
	IdempotencyKey string
	CreatedAt      time.Time
}

// SaleDetail línea de venta. Price es el precio unitario cobrado; UnitCost es la
// base de costo usada para la validación de margen.
type SaleDetail struct {
	ID            string
	SaleID        string
	ProductID     string
	ProductItemID *string
	Price         decimal.Decimal
	Quantity      int
	UnitCost      decimal.Decimal

	// Datos de lectura (joins).
	ProductName  string
	SKU          string
	SerialNumber string
}

// Subtotal precio × cantidad.
func (d *SaleDetail) Subtotal() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
