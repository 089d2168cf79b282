package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
)

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// Add suma dos montos. Un resultado fuera de int64 es ErrInvalidInput.
func Add(a, b int64) (int64, error) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, fmt.Errorf("%d + %d fuera de rango: %w", a, b, domain.ErrInvalidInput)
	}
	return s, nil
}

// Mul multiplica cantidad por precio. Un resultado fuera de int64 es ErrInvalidInput.
func Mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, fmt.Errorf("%d × %d fuera de rango: %w", a, b, domain.ErrInvalidInput)
	}
	return p, nil
}

// toAmount pasa un decimal entero a int64 sin truncar en silencio.
func toAmount(d decimal.Decimal) (int64, error) {
	if d.GreaterThan(maxAmount) || d.LessThan(minAmount) {
		return 0, fmt.Errorf("monto %s fuera de rango: %w", d, domain.ErrInvalidInput)
	}
	return d.IntPart(), nil
}
