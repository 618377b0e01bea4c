package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// StockInvalidator descarta las lecturas de stock en caché. El resumen de stock
// incluye nombre, SKU y precio del producto, así que cualquier cambio del
// catálogo lo invalida.
type StockInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ProductUseCase casos de uso CRUD del catálogo. El stock no se toca aquí:
// sale siempre del libro de movimientos.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cache      StockInvalidator
	log        *logger.Logger
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, cache StockInvalidator, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, categories: categories, cache: cache, log: log.Component("catalog"), now: time.Now}
}

// normalizeName recorta y lleva a NFC para que "Cámara" escrita de dos formas
// sea el mismo nombre.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Create crea un producto. El nombre es único sin distinguir mayúsculas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := normalizeName(in.Name)
	if name == "" {
		return nil, domain.Invalid("el nombre es obligatorio")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if err := uc.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	attrs, err := uc.buildAttributes(ctx, in.CategoryID, in.Attributes)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		SKU:          strings.TrimSpace(in.SKU),
		Description:  in.Description,
		Price:        in.Price,
		IsSerialized: in.IsSerialized,
		CategoryID:   in.CategoryID,
		Attributes:   attrs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidateStock(ctx)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. IsSerialized no se puede modificar. Si cambia la
// categoría, los atributos existentes se revalidan contra la nueva plantilla.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, domain.Invalid("el nombre es obligatorio")
		}
		if err := uc.ensureNameFree(ctx, name, product.ID); err != nil {
			return nil, err
		}
		product.Name = name
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		product.Price = *in.Price
	}

	categoryChanged := in.CategoryID != nil && *in.CategoryID != product.CategoryID
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	switch {
	case in.Attributes != nil:
		attrs, err := uc.buildAttributes(ctx, product.CategoryID, in.Attributes)
		if err != nil {
			return nil, err
		}
		product.Attributes = attrs
	case categoryChanged:
		attrs, err := uc.conformAttributes(ctx, product.CategoryID, product.Attributes)
		if err != nil {
			return nil, err
		}
		product.Attributes = attrs
	}

	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidateStock(ctx)
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto sin movimientos ni unidades.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateStock(ctx)
	return nil
}

// invalidateStock un fallo de la caché no revierte el cambio ya guardado.
func (uc *ProductUseCase) invalidateStock(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidar caché de stock")
	}
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.Invalid("el precio no puede ser negativo")
	}
	if !inventory.FitsPlaces(price, inventory.MoneyPlaces) {
		return domain.Invalid("el precio admite como máximo %d decimales", inventory.MoneyPlaces)
	}
	return nil
}

func (uc *ProductUseCase) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un producto llamado %s", domain.ErrDuplicate, existing.Name)
	}
	return nil
}

func (uc *ProductUseCase) category(ctx context.Context, id string) (*entity.Category, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("categoría", id)
	}
	return c, nil
}

func (uc *ProductUseCase) buildAttributes(ctx context.Context, categoryID string, raw map[string]any) (entity.Attributes, error) {
	if categoryID == "" {
		if len(raw) > 0 {
			return nil, domain.Invalid("un producto sin categoría no acepta atributos")
		}
		return entity.Attributes{}, nil
	}
	c, err := uc.category(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return c.BuildAttributes(raw)
}

func (uc *ProductUseCase) conformAttributes(ctx context.Context, categoryID string, attrs entity.Attributes) (entity.Attributes, error) {
	if categoryID == "" {
		if len(attrs) > 0 {
			return nil, domain.Invalid("un producto sin categoría no acepta atributos")
		}
		return entity.Attributes{}, nil
	}
	c, err := uc.category(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return c.Conform(attrs)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	attrs := p.Attributes
	if attrs == nil {
		attrs = entity.Attributes{}
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Description:  p.Description,
		Price:        p.Price,
		IsSerialized: p.IsSerialized,
		CategoryID:   p.CategoryID,
		Attributes:   attrs,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
