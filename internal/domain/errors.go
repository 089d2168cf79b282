package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de costeo.
	ErrInvalidRule            = errors.New("regla de monto inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrentModification = errors.New("modificación concurrente, reintente")
	ErrLedgerInconsistency    = errors.New("inconsistencia en el kardex")
)

// InsufficientStockError detalla qué repuesto no pudo atenderse.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	PartID    string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para repuesto %s: solicitado %d, disponible %d",
		e.PartID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsRetryable indica si el caller puede reintentar la misma petición sin riesgo.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
