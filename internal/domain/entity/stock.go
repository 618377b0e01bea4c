package entity

import "github.com/shopspring/decimal"

// StockSummary stock derivado de un producto: nunca se almacena, se calcula
// desde el libro de movimientos (y el registro de unidades si es serializado).
type StockSummary struct {
	ProductID    string
	ProductName  string
	SKU          string
	IsSerialized bool
	OnHand       int
	AvgUnitCost  decimal.Decimal
	LowStock     bool
}
