package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
)

// errInvalidBody el cuerpo no es JSON válido para el DTO esperado.
var errInvalidBody = errors.New("cuerpo inválido")

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct aplica las etiquetas validate: del DTO y devuelve un
// domain.ErrInvalidInput con el primer campo que falla.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			return domain.Invalid("campo %s no cumple %s=%s", field, fe.Tag(), fe.Param())
		}
		return domain.Invalid("campo %s no cumple %s", field, fe.Tag())
	}
	return domain.Invalid("%v", err)
}

// parseBody decodifica el JSON del cuerpo y lo valida.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validateStruct(out)
}

// parsePage lee limit/offset de la query.
func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, domain.Invalid("paginación inválida")
	}
	if err := validateStruct(page); err != nil {
		return page, err
	}
	return page, nil
}
