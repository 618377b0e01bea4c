package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
)

// ReasonStockReceived razón de las entradas creadas por una recepción.
const ReasonStockReceived = "Recepción de mercancía"

// SaleReason razón de las salidas de una venta; referencia el id de la venta.
func SaleReason(saleID string) string { return "Venta #" + saleID }

// ReasonAdjustmentIncrease prefijo de razón para ajustes que suman stock.
// Cualquier otro ajuste resta.
const ReasonAdjustmentIncrease = "ADJUSTMENT_INCREASE"

// InventoryMovement fila del libro de movimientos. Solo se inserta; nunca se
// actualiza ni se borra. Quantity siempre es positiva; el signo lo da Type.
type InventoryMovement struct {
	ID            string
	ProductID     string
	ProductItemID *string // nil para productos a granel
	Type          string
	Quantity      int
	UnitCost      *decimal.Decimal // obligatorio en IN
	Reason        string
	CreatedAt     time.Time

	// Datos de lectura (joins); vacíos al crear.
	ProductName  string
	SerialNumber string
}

// IsIncrease indica si un ajuste suma stock.
func (m *InventoryMovement) IsIncrease() bool {
	return strings.HasPrefix(m.Reason, ReasonAdjustmentIncrease)
}
