package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// CategoryUseCase categorías de producto y sus plantillas de atributos.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría con su plantilla.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c := &entity.Category{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Template:  toTemplate(in.Template),
		CreatedAt: time.Now(),
	}
	if c.Name == "" {
		return nil, domain.Invalid("el nombre de la categoría es obligatorio")
	}
	if err := c.ValidateTemplate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update reemplaza nombre y plantilla. Los productos existentes conservan sus
// atributos hasta la próxima edición.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("categoría", id)
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Template = toTemplate(in.Template)
	if c.Name == "" {
		return nil, domain.Invalid("el nombre de la categoría es obligatorio")
	}
	if err := c.ValidateTemplate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("categoría", id)
	}
	return toCategoryResponse(c), nil
}

// List todas las categorías por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func toTemplate(fields []dto.TemplateFieldDTO) []entity.TemplateField {
	out := make([]entity.TemplateField, 0, len(fields))
	for _, f := range fields {
		out = append(out, entity.TemplateField{
			Key:     strings.TrimSpace(f.Key),
			Label:   strings.TrimSpace(f.Label),
			Type:    entity.AttributeType(f.Type),
			Options: f.Options,
		})
	}
	return out
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	fields := make([]dto.TemplateFieldDTO, 0, len(c.Template))
	for _, f := range c.Template {
		fields = append(fields, dto.TemplateFieldDTO{Key: f.Key, Label: f.Label, Type: string(f.Type), Options: f.Options})
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Template: fields, CreatedAt: c.CreatedAt}
}
