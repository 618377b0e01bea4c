package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInvalidState        = errors.New("estado de la unidad no permite la operación")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrPricing             = errors.New("precio por debajo del margen mínimo")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
	ErrStorage             = errors.New("error de almacenamiento")
)

// Invalid envuelve ErrInvalidInput con un detalle accionable para el cliente.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound envuelve ErrNotFound indicando qué recurso falta.
func NotFound(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// PricingError rechaza una línea de venta cuyo precio no cubre el margen mínimo.
// MinPrice es el precio más bajo que la línea aceptaría.
type PricingError struct {
	ProductID string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	MinMargin decimal.Decimal
	MinPrice  decimal.Decimal
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("%s: producto %s, precio %s, costo %s, margen mínimo %s%%, precio mínimo %s",
		ErrPricing, e.ProductID, e.Price.StringFixed(2), e.Cost.StringFixed(2),
		e.MinMargin.Mul(decimal.NewFromInt(100)).String(), e.MinPrice.StringFixed(2))
}

func (e *PricingError) Unwrap() error { return ErrPricing }

// InsufficientStockError indica cuánto se pidió y cuánto hay disponible.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s, solicitado %d, disponible %d",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsDomainError indica si err pertenece a la taxonomía de dominio
// (el resto se trata como falla de almacenamiento).
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized, ErrForbidden,
		ErrConflict, ErrInvalidState, ErrInsufficientStock, ErrPricing,
		ErrConcurrencyConflict, ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
