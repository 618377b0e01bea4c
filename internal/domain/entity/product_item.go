package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/inventario-pos/internal/domain"
)

// ItemStatus estado de una unidad serializada.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemSold      ItemStatus = "sold"
	ItemDefective ItemStatus = "defective"
	ItemReserved  ItemStatus = "reserved"
)

// Solo available tiene salidas; ninguna transición regresa a available.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemAvailable: {ItemSold, ItemDefective, ItemReserved},
}

// Valid indica si el estado es conocido.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemAvailable, ItemSold, ItemDefective, ItemReserved:
		return true
	}
	return false
}

// CanTransitionTo indica si la tabla de transiciones permite pasar de s a next.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	for _, allowed := range itemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ProductItem unidad física serializada (IMEI, número de serie). Nunca se elimina.
type ProductItem struct {
	ID           string
	ProductID    string
	SKU          string
	SerialNumber string
	Status       ItemStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TransitionTo aplica el cambio de estado si la tabla lo permite.
func (i *ProductItem) TransitionTo(next ItemStatus, now time.Time) error {
	if !i.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: unidad %s (%s) no puede pasar de %s a %s",
			domain.ErrInvalidState, i.ID, i.SerialNumber, i.Status, next)
	}
	i.Status = next
	i.UpdatedAt = now
	return nil
}
