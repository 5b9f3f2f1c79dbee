package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-materiales/internal/application/dto"
	"github.com/jhoicas/inventario-materiales/internal/application/usecase"
)

// InventoryHandler movimientos de cantidad, recarga del archivo y reporte de existencias.
type InventoryHandler struct {
	products *usecase.ProductUseCase
	reports  *usecase.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(products *usecase.ProductUseCase, reports *usecase.ReportUseCase) *InventoryHandler {
	return &InventoryHandler{products: products, reports: reports}
}

// Deliver godoc
// @Summary      Registrar entrega (suma cantidad)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustQuantityRequest  true  "Cantidad (> 0)"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/deliver [post]
func (h *InventoryHandler) Deliver(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.products.DeliverByID(c.UserContext(), c.Params("id"), in.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Withdraw godoc
// @Summary      Registrar retiro (resta cantidad)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustQuantityRequest  true  "Cantidad (> 0)"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/withdraw [post]
func (h *InventoryHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.products.WithdrawByID(c.UserContext(), c.Params("id"), in.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Recargar inventario desde el archivo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/refresh [post]
func (h *InventoryHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.products.Refresh(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de existencias en PDF
// @Tags         inventory
// @Produce      application/pdf
// @Param        type  query  string  false  "Tipo de material"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	doc, err := h.reports.Generate(c.UserContext(), c.Query("type"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="existencias.pdf"`)
	return c.Send(doc)
}
