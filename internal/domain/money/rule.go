// Package money contiene el cálculo de ajustes sobre montos enteros en unidades mínimas
// (rupias, sin decimales). Lo usan márgenes, descuentos e impuestos.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
)

// RuleType etiqueta persistida de una regla.
type RuleType string

const (
	RuleNone    RuleType = "none"
	RulePercent RuleType = "percent"
	RuleFixed   RuleType = "fixed"
)

var hundred = decimal.NewFromInt(100)

// Rule es una regla {none | percent(v) | fixed(v)}. El valor cero es None.
// Solo se construye con None, Percent, Fixed o ParseRule, así una regla None nunca lleva valor.
type Rule struct {
	kind    RuleType
	percent decimal.Decimal
	fixed   int64
}

// None regla sin ajuste.
func None() Rule { return Rule{} }

// Límites de NUMERIC(14,4): 4 decimales y valor menor a 10^10.
const (
	percentScale = 4
	ruleLimit    = 10_000_000_000
)

// Percent regla porcentual; v puede tener hasta 4 decimales (2.5 = 2,5 %).
func Percent(v decimal.Decimal) (Rule, error) {
	if v.IsNegative() {
		return Rule{}, fmt.Errorf("porcentaje negativo %s: %w", v, domain.ErrInvalidRule)
	}
	if !v.Equal(v.Round(percentScale)) {
		return Rule{}, fmt.Errorf("porcentaje %s con más de %d decimales: %w", v, percentScale, domain.ErrInvalidRule)
	}
	if v.GreaterThanOrEqual(decimal.NewFromInt(ruleLimit)) {
		return Rule{}, fmt.Errorf("porcentaje %s fuera de rango: %w", v, domain.ErrInvalidRule)
	}
	return Rule{kind: RulePercent, percent: v}, nil
}

// Fixed regla de monto fijo en unidades mínimas.
func Fixed(v int64) (Rule, error) {
	if v < 0 {
		return Rule{}, fmt.Errorf("monto fijo negativo %d: %w", v, domain.ErrInvalidRule)
	}
	if v >= ruleLimit {
		return Rule{}, fmt.Errorf("monto fijo %d fuera de rango: %w", v, domain.ErrInvalidRule)
	}
	return Rule{kind: RuleFixed, fixed: v}, nil
}

// MustPercent para constantes y tests.
func MustPercent(v int64) Rule {
	r, err := Percent(decimal.NewFromInt(v))
	if err != nil {
		panic(err)
	}
	return r
}

// MustFixed para constantes y tests.
func MustFixed(v int64) Rule {
	r, err := Fixed(v)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRule construye una regla desde su forma persistida (etiqueta + valor numérico).
// Etiqueta vacía equivale a "none". Para "none" el valor se ignora.
func ParseRule(ruleType string, value decimal.Decimal) (Rule, error) {
	switch RuleType(strings.ToLower(strings.TrimSpace(ruleType))) {
	case "", RuleNone:
		return None(), nil
	case RulePercent:
		return Percent(value)
	case RuleFixed:
		if !value.IsInteger() {
			return Rule{}, fmt.Errorf("monto fijo con decimales %s: %w", value, domain.ErrInvalidRule)
		}
		if value.GreaterThanOrEqual(decimal.NewFromInt(ruleLimit)) {
			return Rule{}, fmt.Errorf("monto fijo %s fuera de rango: %w", value, domain.ErrInvalidRule)
		}
		return Fixed(value.IntPart())
	default:
		return Rule{}, fmt.Errorf("tipo de regla %q: %w", ruleType, domain.ErrInvalidRule)
	}
}

// Type etiqueta de la regla.
func (r Rule) Type() RuleType {
	if r.kind == "" {
		return RuleNone
	}
	return r.kind
}

// Value valor numérico para persistir (0 en None).
func (r Rule) Value() decimal.Decimal {
	switch r.Type() {
	case RulePercent:
		return r.percent
	case RuleFixed:
		return decimal.NewFromInt(r.fixed)
	default:
		return decimal.Zero
	}
}

// IsNone true si la regla no ajusta.
func (r Rule) IsNone() bool { return r.Type() == RuleNone }

// ValidateDiscount rechaza descuentos porcentuales mayores a 100 %.
func (r Rule) ValidateDiscount() error {
	if r.Type() == RulePercent && r.percent.GreaterThan(hundred) {
		return fmt.Errorf("descuento de %s%%: %w", r.percent, domain.ErrInvalidRule)
	}
	return nil
}

// Equal compara etiqueta y valor.
func (r Rule) Equal(o Rule) bool {
	return r.Type() == o.Type() && r.Value().Equal(o.Value())
}

func (r Rule) String() string {
	switch r.Type() {
	case RulePercent:
		return r.percent.String() + "%"
	case RuleFixed:
		return fmt.Sprintf("fixed(%d)", r.fixed)
	default:
		return "none"
	}
}
