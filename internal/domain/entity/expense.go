package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago de un gasto.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"
)

// ExpenseCategory categoría de gasto (arriendo, servicios, repuestos...).
type ExpenseCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Expense gasto operativo. RelatedProductItemID enlaza un gasto con una unidad
// (p. ej. una reparación en garantía).
type Expense struct {
	ID                   string
	CategoryID           string
	Amount               decimal.Decimal
	Description          string
	PaymentMethod        string
	Date                 time.Time
	RelatedProductItemID *string
	UserID               *string
	CreatedAt            time.Time

	CategoryName string // lectura
}
