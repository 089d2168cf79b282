package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// PurchaseHandler recepción de compras (protegido).
type PurchaseHandler struct {
	uc  *inventory.ReceivePurchaseUseCase
	log *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *inventory.ReceivePurchaseUseCase, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, log: log}
}

// Receive godoc
// @Summary      Recibir compra
// @Description  Crea un lote por línea con precios congelados, registra la entrada en el kardex
//
//	y actualiza stock y alertas. Todo o nada.
//
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReceivePurchaseRequest  true  "supplier_id, lines (part_id, quantity, unit_cost, margin, promo, discount), order_discount, tax"
// @Success      201   {object}  dto.ReceivePurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/receipts [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.ReceiveFromRequest(c.Context(), userID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
