package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/inventory"
)

// InventoryHandler maneja recepciones, stock, libro de movimientos y unidades serializadas.
type InventoryHandler struct {
	receive       *inventory.ReceiveStockUseCase
	stock         *inventory.StockUseCase
	itemStatus    *inventory.ItemStatusUseCase
	replenishment *inventory.ReplenishmentUseCase
	exporter      inventory.MovementExporter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	receive *inventory.ReceiveStockUseCase,
	stock *inventory.StockUseCase,
	itemStatus *inventory.ItemStatusUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	exporter inventory.MovementExporter,
) *InventoryHandler {
	return &InventoryHandler{
		receive:       receive,
		stock:         stock,
		itemStatus:    itemStatus,
		replenishment: replenishment,
		exporter:      exporter,
	}
}

// ReceiveStock godoc
// @Summary      Registrar recepción de mercancía
// @Description  Serializado: un serial por unidad (crea unidades disponibles + entradas).
//
//	Granel: una sola entrada con la cantidad. Todo o nada.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "product_id, quantity, unit_cost, serials"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) ReceiveStock(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.receive.ReceiveStock(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetStock godoc
// @Summary      Stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.stock.ComputeStock(c.UserContext(), c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      Resumen de stock de todos los productos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockSummaryResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	out, err := h.stock.ListStockSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Indicadores globales del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatsResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.stock.InventoryStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Libro de movimientos (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	out, err := h.stock.ListMovements(c.UserContext(), c.Query("product_id"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportMovements godoc
// @Summary      Exportar el libro de movimientos a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Success      200  {file}  file
// @Router       /api/inventory/movements/export [get]
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	out, err := h.stock.ExportMovements(c.UserContext(), c.Query("product_id"), h.exporter)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.xlsx"`)
	return c.Send(out)
}

// ListSerials godoc
// @Summary      Unidades serializadas de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}  dto.ProductItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{productId}/serials [get]
func (h *InventoryHandler) ListSerials(c *fiber.Ctx) error {
	out, err := h.stock.ListSerials(c.UserContext(), c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateItemStatus godoc
// @Summary      Cambiar el estado de una unidad (defectuosa, reservada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la unidad"
// @Param        body  body  dto.UpdateItemStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.ProductItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/status [patch]
func (h *InventoryHandler) UpdateItemStatus(c *fiber.Ctx) error {
	var in dto.UpdateItemStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.itemStatus.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos con stock bajo y la cantidad sugerida de pedido,
//
//	ordenados por margen histórico y volumen de ventas.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
