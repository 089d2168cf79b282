package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

var validate = validator.New()

// validationMessage lista campo y regla incumplida de cada error del validador.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+": "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
}

// paramID lee un id UUID de la ruta. Si falta o no es UUID responde 400 y devuelve "".
func paramID(c *fiber.Ctx, name string) (string, error) {
	v := c.Params(name)
	if v == "" {
		return "", c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: name + " es requerido"})
	}
	if _, err := uuid.Parse(v); err != nil {
		return "", c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: name + ": uuid"})
	}
	return v, nil
}

// errorStatus traduce un error de dominio a status HTTP y cuerpo.
func errorStatus(err error) (int, dto.ErrorResponse) {
	var ise *domain.InsufficientStockError
	switch {
	case errors.As(err, &ise):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), PartID: ise.PartID}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrConcurrentModification):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: err.Error(), Retryable: true}
	case errors.Is(err, domain.ErrInvalidRule):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_RULE", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrLedgerInconsistency):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "LEDGER_INCONSISTENCY", Message: "inconsistencia en el kardex; operación abortada"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

// respondError escribe la respuesta de error; los 5xx se registran con el detalle completo.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Str("code", body.Code).Msg("error en petición")
	}
	return c.Status(status).JSON(body)
}
