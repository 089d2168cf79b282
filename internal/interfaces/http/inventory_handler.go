package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// InventoryHandler ajustes de stock, alertas y reposición (protegido).
type InventoryHandler struct {
	adjust        *inventory.AdjustStockUseCase
	query         *inventory.QueryUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustStockUseCase, query *inventory.QueryUseCase, replenishment *inventory.ReplenishmentUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, query: query, replenishment: replenishment, log: log}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  delta negativo consume lotes FIFO; delta positivo abre un lote de ajuste.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustStockRequest  true  "part_id, delta (≠ 0), reason"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.adjust.AdjustFromRequest(c.Context(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAlerts godoc
// @Summary      Repuestos bajo stock mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sort   query     string  false  "part_name | part_number | rack_location | current_stock | minimal_stock"
// @Param        order  query     string  false  "asc | desc"
// @Success      200    {array}   dto.LowStockAlertDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/stock/alerts [get]
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	var q dto.AlertListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return validationError(c, err)
	}
	list, err := h.query.ListAlerts(c.Context(), q.Sort, q.Order)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.AlertViewsToDTO(list))
}

// MarkAlertRead godoc
// @Summary      Marcar alerta como leída
// @Tags         stock
// @Security     Bearer
// @Param        part_id  path  string  true  "ID del repuesto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/alerts/{part_id}/read [post]
func (h *InventoryHandler) MarkAlertRead(c *fiber.Ctx) error {
	partID, err := paramID(c, "part_id")
	if partID == "" {
		return err
	}
	if err := h.query.MarkAlertRead(c.Context(), partID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReconcileAlert godoc
// @Summary      Recalcular alerta de un repuesto
// @Description  Devuelve la alerta vigente, o 204 si el repuesto ya no está bajo mínimo.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        part_id  path      string  true  "ID del repuesto"
// @Success      200      {object}  dto.LowStockAlertDTO
// @Success      204
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/stock/alerts/{part_id}/reconcile [post]
func (h *InventoryHandler) ReconcileAlert(c *fiber.Ctx) error {
	partID, err := paramID(c, "part_id")
	if partID == "" {
		return err
	}
	alert, err := h.query.ReconcileAlert(c.Context(), partID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if alert == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(inventory.AlertToDTO(alert))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Repuestos en alerta con la cantidad sugerida para volver al stock ideal,
//
//	ordenados por cobertura ascendente.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": inventory.SuggestionsToDTO(list),
	})
}
