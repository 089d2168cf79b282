package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// PartHandler consultas por repuesto: kardex, lotes y conciliación (protegido).
type PartHandler struct {
	query *inventory.QueryUseCase
	recon *inventory.ReconciliationUseCase
	log   *logger.Logger
}

// NewPartHandler construye el handler.
func NewPartHandler(query *inventory.QueryUseCase, recon *inventory.ReconciliationUseCase, log *logger.Logger) *PartHandler {
	return &PartHandler{query: query, recon: recon, log: log}
}

// Movements godoc
// @Summary      Kardex del repuesto
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del repuesto"
// @Param        limit   query     int     false  "máx. 500 (default 50)"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.MovementListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/movements [get]
func (h *PartHandler) Movements(c *fiber.Ctx) error {
	partID, err := paramID(c, "id")
	if partID == "" {
		return err
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	if err := validate.Struct(page); err != nil {
		return validationError(c, err)
	}
	page.DefaultPage()
	movs, err := h.query.Movements(c.Context(), partID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MovementListResponse{
		PartID:    partID,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
		Movements: inventory.MovementsToDTO(movs),
	})
}

// Batches godoc
// @Summary      Lotes del repuesto en orden FIFO
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del repuesto"
// @Success      200  {object}  dto.BatchesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/batches [get]
func (h *PartHandler) Batches(c *fiber.Ctx) error {
	partID, err := paramID(c, "id")
	if partID == "" {
		return err
	}
	view, err := h.query.Batches(c.Context(), partID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.BatchesToDTO(partID, view))
}

// Reconciliation godoc
// @Summary      Conciliación del repuesto
// @Description  Verifica stock contra lotes, kardex y asignaciones. No modifica nada.
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del repuesto"
// @Success      200  {object}  dto.ReconciliationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/reconciliation [get]
func (h *PartHandler) Reconciliation(c *fiber.Ctx) error {
	partID, err := paramID(c, "id")
	if partID == "" {
		return err
	}
	report, err := h.recon.CheckPart(c.Context(), partID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.ReportToDTO(report))
}
