package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/domain"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err       error
		status    int
		code      string
		retryable bool
		partID    string
	}{
		{fmt.Errorf("línea 1: %w", domain.ErrInvalidRule), fiber.StatusBadRequest, "INVALID_RULE", false, ""},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", false, ""},
		{fmt.Errorf("repuesto x: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND", false, ""},
		{&domain.InsufficientStockError{PartID: "p9", Requested: 3, Available: 1}, fiber.StatusConflict, "INSUFFICIENT_STOCK", false, "p9"},
		{fmt.Errorf("tx: %w", domain.ErrConcurrentModification), fiber.StatusConflict, "CONCURRENT_MODIFICATION", true, ""},
		{domain.ErrLedgerInconsistency, fiber.StatusInternalServerError, "LEDGER_INCONSISTENCY", false, ""},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, body := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.retryable, body.Retryable)
			assert.Equal(t, tt.partID, body.PartID)
		})
	}
}
