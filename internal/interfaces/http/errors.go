package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/pkg/logger"
)

// errorMapping código HTTP y código de error de API para un error de dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{errInvalidBody, fiber.StatusBadRequest, "INVALID_BODY"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrStorage, fiber.StatusInternalServerError, "STORAGE"},
}

// ErrorHandler traduce los errores que devuelven los handlers a dto.ErrorResponse.
// Los errores 5xx se registran y se responden sin detalles internos.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		status, body := toErrorResponse(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("error atendiendo petición")
		}
		return c.Status(status).JSON(body)
	}
}

func toErrorResponse(err error) (int, dto.ErrorResponse) {
	var pricing *domain.PricingError
	if errors.As(err, &pricing) {
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code:    "PRICING",
			Message: err.Error(),
			Details: map[string]any{
				"product_id": pricing.ProductID,
				"price":      pricing.Price.StringFixed(2),
				"cost":       pricing.Cost.StringFixed(2),
				"min_margin": pricing.MinMargin.String(),
				"min_price":  pricing.MinPrice.StringFixed(2),
			},
		}
	}
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: err.Error(),
			Details: map[string]any{
				"product_id": stock.ProductID,
				"requested":  stock.Requested,
				"available":  stock.Available,
			},
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message}
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= fiber.StatusInternalServerError {
				return m.status, dto.ErrorResponse{Code: m.code, Message: m.target.Error()}
			}
			return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}
