package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/memory"
)

func TestExpenseUseCase_Create(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := usecase.NewExpenseUseCase(store.Expenses(), store.Items(), nil)

	cat, err := uc.CreateCategory(ctx, dto.CreateExpenseCategoryRequest{Name: "Garantías"})
	require.NoError(t, err)

	item := &entity.ProductItem{ProductID: "p1", SerialNumber: "IMEI-7", Status: entity.ItemDefective}
	require.NoError(t, store.Items().Create(ctx, item))

	date := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	e, err := uc.Create(ctx, "u1", dto.CreateExpenseRequest{
		CategoryID:           cat.ID,
		Amount:               decimal.NewFromInt(80),
		Description:          "Cambio de pantalla",
		PaymentMethod:        entity.PaymentCash,
		Date:                 &date,
		RelatedProductItemID: &item.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Garantías", e.CategoryName)
	require.NotNil(t, e.UserID)
	assert.Equal(t, "u1", *e.UserID)
	assert.Equal(t, date, e.Date)

	base := dto.CreateExpenseRequest{CategoryID: cat.ID, Amount: decimal.NewFromInt(10), Description: "x", PaymentMethod: "card"}

	bad := base
	bad.Amount = decimal.Zero
	_, err = uc.Create(ctx, "", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = base
	bad.Amount = decimal.RequireFromString("10.005")
	_, err = uc.Create(ctx, "", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = base
	bad.PaymentMethod = "cheque"
	_, err = uc.Create(ctx, "", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = base
	bad.CategoryID = "no-existe"
	_, err = uc.Create(ctx, "", bad)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing := "no-existe"
	bad = base
	bad.RelatedProductItemID = &missing
	_, err = uc.Create(ctx, "", bad)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseUseCase_ListPorRango(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := usecase.NewExpenseUseCase(store.Expenses(), store.Items(), nil)
	cat, err := uc.CreateCategory(ctx, dto.CreateExpenseCategoryRequest{Name: "Arriendo"})
	require.NoError(t, err)

	for _, month := range []time.Month{time.January, time.February, time.March} {
		d := time.Date(2026, month, 1, 12, 0, 0, 0, time.UTC)
		_, err := uc.Create(ctx, "", dto.CreateExpenseRequest{
			CategoryID: cat.ID, Amount: decimal.NewFromInt(100), Description: month.String(),
			PaymentMethod: entity.PaymentTransfer, Date: &d,
		})
		require.NoError(t, err)
	}

	from := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	list, err := uc.List(ctx, &from, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "March", list.Items[0].Description, "más recientes primero")

	cats, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}
