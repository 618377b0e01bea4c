package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain"
)

// Decimales que se guardan: precios, totales y gastos en centavos; costos
// unitarios hasta cuatro decimales.
const (
	MoneyPlaces int32 = 2
	CostPlaces  int32 = 4
)

// FitsPlaces indica si d se puede guardar con places decimales sin redondear.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// Márgenes mínimos sobre el precio de venta.
var (
	SerializedMinMargin = decimal.RequireFromString("0.10")
	BulkMinMargin       = decimal.RequireFromString("0.20")
)

// MinMarginFor margen mínimo según el tipo de producto.
func MinMarginFor(serialized bool) decimal.Decimal {
	if serialized {
		return SerializedMinMargin
	}
	return BulkMinMargin
}

// Margin (precio − costo) / precio. Cero si el precio no es positivo.
func Margin(price, cost decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return price.Sub(cost).Div(price)
}

// MinPrice precio más bajo que cumple el margen: costo / (1 − margen),
// redondeado hacia arriba a centavos.
func MinPrice(cost, minMargin decimal.Decimal) decimal.Decimal {
	return cost.Div(decimal.NewFromInt(1).Sub(minMargin)).RoundCeil(2)
}

// CheckMargin rechaza precios por debajo del costo o del margen mínimo.
func CheckMargin(productID string, price, cost, minMargin decimal.Decimal) error {
	if price.IsPositive() && price.GreaterThanOrEqual(cost) && Margin(price, cost).GreaterThanOrEqual(minMargin) {
		return nil
	}
	return &domain.PricingError{
		ProductID: productID,
		Price:     price,
		Cost:      cost,
		MinMargin: minMargin,
		MinPrice:  MinPrice(cost, minMargin),
	}
}
