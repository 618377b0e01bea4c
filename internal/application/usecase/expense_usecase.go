package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// ExpenseUseCase gastos operativos y sus categorías.
type ExpenseUseCase struct {
	repo  repository.ExpenseRepository
	items repository.ProductItemRepository
	log   *logger.Logger
	now   func() time.Time
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository, items repository.ProductItemRepository, log *logger.Logger) *ExpenseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpenseUseCase{repo: repo, items: items, log: log.Component("expenses"), now: time.Now}
}

// CreateCategory crea una categoría de gasto.
func (uc *ExpenseUseCase) CreateCategory(ctx context.Context, in dto.CreateExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("el nombre de la categoría es obligatorio")
	}
	c := &entity.ExpenseCategory{ID: uuid.New().String(), Name: name, CreatedAt: uc.now()}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return &dto.ExpenseCategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}, nil
}

// ListCategories categorías de gasto por nombre.
func (uc *ExpenseUseCase) ListCategories(ctx context.Context) ([]dto.ExpenseCategoryResponse, error) {
	list, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseCategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ExpenseCategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

// Create registra un gasto a nombre de userID (vacío = sin usuario).
func (uc *ExpenseUseCase) Create(ctx context.Context, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("el monto debe ser mayor a cero")
	}
	if !inventory.FitsPlaces(in.Amount, inventory.MoneyPlaces) {
		return nil, domain.Invalid("el monto admite como máximo %d decimales", inventory.MoneyPlaces)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.Invalid("la descripción es obligatoria")
	}
	switch in.PaymentMethod {
	case entity.PaymentCash, entity.PaymentTransfer, entity.PaymentCard:
	default:
		return nil, domain.Invalid("medio de pago %q no soportado", in.PaymentMethod)
	}
	category, err := uc.repo.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NotFound("categoría de gasto", in.CategoryID)
	}
	if in.RelatedProductItemID != nil && *in.RelatedProductItemID != "" {
		item, err := uc.items.GetByID(ctx, *in.RelatedProductItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NotFound("unidad", *in.RelatedProductItemID)
		}
	} else {
		in.RelatedProductItemID = nil
	}

	now := uc.now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	var user *string
	if userID != "" {
		user = &userID
	}
	e := &entity.Expense{
		ID:                   uuid.New().String(),
		CategoryID:           category.ID,
		Amount:               in.Amount,
		Description:          strings.TrimSpace(in.Description),
		PaymentMethod:        in.PaymentMethod,
		Date:                 date,
		RelatedProductItemID: in.RelatedProductItemID,
		UserID:               user,
		CreatedAt:            now,
		CategoryName:         category.Name,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.log.Info().Str("expense_id", e.ID).Str("amount", e.Amount.String()).Str("category", category.Name).Msg("gasto registrado")
	resp := toExpenseResponse(e)
	return &resp, nil
}

// List gastos en [from, to), más recientes primero. from/to nil = sin límite.
func (uc *ExpenseUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) (*dto.ExpenseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toExpenseResponse(e))
	}
	return &dto.ExpenseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toExpenseResponse(e *entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:                   e.ID,
		CategoryID:           e.CategoryID,
		CategoryName:         e.CategoryName,
		Amount:               e.Amount,
		Description:          e.Description,
		PaymentMethod:        e.PaymentMethod,
		Date:                 e.Date,
		RelatedProductItemID: e.RelatedProductItemID,
		UserID:               e.UserID,
		CreatedAt:            e.CreatedAt,
	}
}
