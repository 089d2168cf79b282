package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// SaleHandler ventas de mostrador (protegido).
type SaleHandler struct {
	uc    *inventory.CreateSaleUseCase
	query *inventory.QueryUseCase
	log   *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *inventory.CreateSaleUseCase, query *inventory.QueryUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, query: query, log: log}
}

// Create godoc
// @Summary      Crear venta
// @Description  Asigna cada línea a los lotes más antiguos (FIFO) con el precio congelado de cada lote.
//
//	Si alguna línea no tiene stock suficiente no se persiste nada.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "lines (part_id, quantity, discount), order_discount, tax"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK con part_id, o CONCURRENT_MODIFICATION con retryable"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.CreateFromRequest(c.Context(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if id == "" {
		return err
	}
	res, err := h.query.Sale(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.SaleToDTO(res))
}
