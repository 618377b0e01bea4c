package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. Attributes se valida
// contra la plantilla de la categoría.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	SKU          string          `json:"sku" validate:"max=100"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	IsSerialized bool            `json:"is_serialized"`
	CategoryID   string          `json:"category_id"`
	Attributes   map[string]any  `json:"attributes"`
}

// UpdateProductRequest entrada para actualizar un producto. IsSerialized no se
// puede cambiar después de creado.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU         *string          `json:"sku" validate:"omitempty,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"`
	Attributes  map[string]any   `json:"attributes"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	SKU          string            `json:"sku,omitempty"`
	Description  string            `json:"description"`
	Price        decimal.Decimal   `json:"price"`
	IsSerialized bool              `json:"is_serialized"`
	CategoryID   string            `json:"category_id,omitempty"`
	Attributes   entity.Attributes `json:"attributes"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// TemplateFieldDTO campo de plantilla de categoría.
type TemplateFieldDTO struct {
	Key     string   `json:"key" validate:"required"`
	Label   string   `json:"label" validate:"required"`
	Type    string   `json:"type" validate:"required,oneof=text number select"`
	Options []string `json:"options,omitempty"`
}

// CategoryRequest entrada para crear o reemplazar una categoría.
type CategoryRequest struct {
	Name     string             `json:"name" validate:"required,min=1,max=100"`
	Template []TemplateFieldDTO `json:"template" validate:"dive"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Template  []TemplateFieldDTO `json:"template"`
	CreatedAt time.Time          `json:"created_at"`
}
