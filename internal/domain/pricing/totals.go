package pricing

import (
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/money"
)

// Piece cantidad vendida/comprada a un mismo precio unitario.
// Una línea de venta que se surte de varios lotes tiene una pieza por lote.
type Piece struct {
	Quantity  int64
	UnitPrice int64
}

// Line línea de documento con su regla de descuento.
type Line struct {
	Pieces   []Piece
	Discount money.Rule
}

// NewLine línea de precio único.
func NewLine(quantity, unitPrice int64, discount money.Rule) Line {
	return Line{Pieces: []Piece{{Quantity: quantity, UnitPrice: unitPrice}}, Discount: discount}
}

// Quantity suma de cantidades de la línea.
func (l Line) Quantity() int64 {
	var q int64
	for _, p := range l.Pieces {
		q += p.Quantity
	}
	return q
}

// LineTotals resultado por línea.
type LineTotals struct {
	Subtotal       int64
	DiscountAmount int64
	Final          int64
}

// Totals resultado del documento.
type Totals struct {
	Lines               []LineTotals
	Subtotal            int64
	OrderDiscountAmount int64
	AfterDiscount       int64
	TaxAmount           int64
	GrandTotal          int64
}

// ComputeTotals aplica, en este orden fijo:
//  1. por línea: subtotal = Σ cantidad × precio; descuento de línea; final de línea
//  2. subtotal = Σ finales de línea; descuento de pedido sobre ese subtotal
//  3. impuesto sobre el neto (después de descuentos), nunca sobre el subtotal bruto
//  4. total = neto + impuesto
//
// Cambiar el orden cambia los montos y rompe compatibilidad.
// Cualquier monto intermedio fuera de int64 es ErrInvalidInput.
func ComputeTotals(lines []Line, orderDiscount, orderTax money.Rule) (Totals, error) {
	if err := orderDiscount.ValidateDiscount(); err != nil {
		return Totals{}, err
	}

	out := Totals{Lines: make([]LineTotals, 0, len(lines))}
	for i, line := range lines {
		if err := line.Discount.ValidateDiscount(); err != nil {
			return Totals{}, fmt.Errorf("línea %d: %w", i+1, err)
		}
		var subtotal int64
		for _, p := range line.Pieces {
			if p.Quantity <= 0 || p.UnitPrice < 0 {
				return Totals{}, fmt.Errorf("línea %d: cantidad o precio inválido: %w", i+1, domain.ErrInvalidInput)
			}
			amount, err := money.Mul(p.Quantity, p.UnitPrice)
			if err != nil {
				return Totals{}, fmt.Errorf("línea %d: %w", i+1, err)
			}
			if subtotal, err = money.Add(subtotal, amount); err != nil {
				return Totals{}, fmt.Errorf("línea %d: %w", i+1, err)
			}
		}
		discount, err := money.Adjustment(subtotal, line.Discount)
		if err != nil {
			return Totals{}, fmt.Errorf("línea %d: %w", i+1, err)
		}
		lt := LineTotals{Subtotal: subtotal, DiscountAmount: discount, Final: subtotal - discount}
		out.Lines = append(out.Lines, lt)
		if out.Subtotal, err = money.Add(out.Subtotal, lt.Final); err != nil {
			return Totals{}, err
		}
	}

	var err error
	if out.OrderDiscountAmount, err = money.Adjustment(out.Subtotal, orderDiscount); err != nil {
		return Totals{}, err
	}
	out.AfterDiscount = out.Subtotal - out.OrderDiscountAmount
	if out.TaxAmount, err = money.Adjustment(out.AfterDiscount, orderTax); err != nil {
		return Totals{}, err
	}
	if out.GrandTotal, err = money.Add(out.AfterDiscount, out.TaxAmount); err != nil {
		return Totals{}, err
	}
	return out, nil
}
