package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/pos"
	"github.com/jhoicas/inventario-pos/internal/domain"
)

// HeaderIdempotencyKey header opcional para reintentar una venta sin duplicarla.
const HeaderIdempotencyKey = "Idempotency-Key"

// POSHandler maneja búsqueda y ventas del punto de venta.
type POSHandler struct {
	search *pos.SearchProductUseCase
	sale   *pos.ProcessSaleUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(search *pos.SearchProductUseCase, sale *pos.ProcessSaleUseCase) *POSHandler {
	return &POSHandler{search: search, sale: sale}
}

// Search godoc
// @Summary      Buscar producto por serial, sku o nombre
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        code  query  string  true  "Serial/sku escaneado o parte del nombre"
// @Success      200  {object}  dto.SearchProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/search [get]
func (h *POSHandler) Search(c *fiber.Ctx) error {
	out, err := h.search.SearchProduct(c.UserContext(), c.Query("code"))
	if err != nil {
		return err
	}
	if out == nil {
		return domain.NotFound("producto", c.Query("code"))
	}
	return c.JSON(out)
}

// ProcessSale godoc
// @Summary      Registrar venta
// @Description  Valida margen mínimo y stock de cada línea y confirma todo o nada.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave para reintentos seguros"
// @Param        body             body    dto.ProcessSaleRequest  true   "Líneas y total cobrado"
// @Success      201  {object}  dto.ProcessSaleResponse
// @Success      200  {object}  dto.ProcessSaleResponse  "clave de idempotencia repetida"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/pos/sales [post]
func (h *POSHandler) ProcessSale(c *fiber.Ctx) error {
	var in dto.ProcessSaleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.sale.ProcessSale(c.UserContext(), GetUserID(c), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return err
	}
	if out.Replayed {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
