package inventory

import (
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ChainEntries completa StockBefore/StockAfter de cada movimiento partiendo de stock,
// en el orden recibido. Devuelve el stock final. Falla si algún asiento deja stock negativo.
func ChainEntries(stock int64, movements []*entity.StockMovement) (int64, error) {
	current := stock
	for _, m := range movements {
		if m.Quantity <= 0 {
			return stock, fmt.Errorf("cantidad de movimiento %d: %w", m.Quantity, domain.ErrInvalidInput)
		}
		m.StockBefore = current
		m.StockAfter = current + m.Delta()
		if m.StockAfter < 0 {
			return stock, &domain.InsufficientStockError{PartID: m.PartID, Requested: m.Quantity, Available: current}
		}
		current = m.StockAfter
	}
	return current, nil
}

// VerifyChain comprueba que los asientos (ya ordenados) formen una cadena consistente:
// before[0] == 0, after[i] == before[i+1] y after == before ± cantidad.
// Devuelve el stock que resulta de reproducir el kardex.
func VerifyChain(movements []*entity.StockMovement) (int64, error) {
	var expected int64
	for i, m := range movements {
		if m.StockBefore != expected {
			return expected, fmt.Errorf("asiento %d (%s): stock anterior %d, esperado %d: %w",
				i, m.ID, m.StockBefore, expected, domain.ErrLedgerInconsistency)
		}
		if m.StockAfter != m.StockBefore+m.Delta() {
			return expected, fmt.Errorf("asiento %d (%s): %d %s %d no da %d: %w",
				i, m.ID, m.StockBefore, m.Direction, m.Quantity, m.StockAfter, domain.ErrLedgerInconsistency)
		}
		expected = m.StockAfter
	}
	return expected, nil
}

// Replay suma con signo los movimientos, sin mirar before/after.
func Replay(movements []*entity.StockMovement) int64 {
	var stock int64
	for _, m := range movements {
		stock += m.Delta()
	}
	return stock
}
