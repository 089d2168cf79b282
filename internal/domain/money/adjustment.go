package money

import (
	"github.com/shopspring/decimal"
)

// Adjustment devuelve el monto de ajuste de la regla sobre base:
//   - None → 0
//   - Percent(v) → floor(base * v / 100)
//   - Fixed(v) → v, acotado a base para que base - ajuste nunca sea negativo
//
// Un ajuste porcentual que no cabe en int64 es ErrInvalidInput.
func Adjustment(base int64, rule Rule) (int64, error) {
	switch rule.Type() {
	case RuleNone:
		return 0, nil
	case RulePercent:
		// Shift(-2) divide por 100 sin perder precisión; Floor trunca hacia abajo.
		return toAmount(decimal.NewFromInt(base).Mul(rule.percent).Shift(-2).Floor())
	case RuleFixed:
		amount := rule.fixed
		if amount > base {
			amount = max(base, 0)
		}
		return amount, nil
	}
	// Inalcanzable: Rule solo se construye con tipos conocidos.
	return 0, nil
}

// AdjustmentFor es la forma con etiqueta textual: valida tipo y valor y calcula el ajuste.
func AdjustmentFor(base int64, ruleType string, value decimal.Decimal) (int64, error) {
	rule, err := ParseRule(ruleType, value)
	if err != nil {
		return 0, err
	}
	return Adjustment(base, rule)
}
