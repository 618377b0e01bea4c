package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseCategoryRequest body para crear una categoría de gasto.
type CreateExpenseCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ExpenseCategoryResponse categoría de gasto.
type ExpenseCategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateExpenseRequest body para registrar un gasto. Date vacío = ahora.
type CreateExpenseRequest struct {
	CategoryID           string          `json:"category_id" validate:"required"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description" validate:"required,min=1,max=500"`
	PaymentMethod        string          `json:"payment_method" validate:"required,oneof=cash transfer card"`
	Date                 *time.Time      `json:"date,omitempty"`
	RelatedProductItemID *string         `json:"related_product_item_id,omitempty"`
}

// ExpenseResponse gasto registrado.
type ExpenseResponse struct {
	ID                   string          `json:"id"`
	CategoryID           string          `json:"category_id"`
	CategoryName         string          `json:"category_name,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
	PaymentMethod        string          `json:"payment_method"`
	Date                 time.Time       `json:"date"`
	RelatedProductItemID *string         `json:"related_product_item_id,omitempty"`
	UserID               *string         `json:"user_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ExpenseListResponse lista paginada de gastos.
type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
