package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// IsSerialized decide de por vida si el stock se cuenta por unidades (ProductItem)
// o por cantidad a granel desde el libro de movimientos.
type Product struct {
	ID           string
	Name         string
	SKU          string // opcional; código de etiqueta para productos a granel
	Description  string
	Price        decimal.Decimal // precio de venta sugerido
	IsSerialized bool
	CategoryID   string // vacío si no tiene categoría
	Attributes   Attributes
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
