// Package pricing calcula precios de lote y totales de documentos (compra/venta) en unidades mínimas.
package pricing

import (
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/money"
)

// BatchPrice precios congelados de un lote al momento de la recepción.
type BatchPrice struct {
	MarginAmount        int64
	NormalPrice         int64
	PromoDiscountAmount int64
	FinalPrice          int64
}

// PriceBatch calcula el precio de venta de un lote:
// normal = costo + margen(costo); final = max(normal - promo(normal), 0).
// El margen debe ser percent o fixed; la promo puede ser none, percent (≤ 100) o fixed.
func PriceBatch(unitCost int64, margin, promo money.Rule) (BatchPrice, error) {
	if unitCost < 0 {
		return BatchPrice{}, fmt.Errorf("costo unitario negativo %d: %w", unitCost, domain.ErrInvalidInput)
	}
	if margin.IsNone() {
		return BatchPrice{}, fmt.Errorf("el margen debe ser percent o fixed: %w", domain.ErrInvalidRule)
	}
	if err := promo.ValidateDiscount(); err != nil {
		return BatchPrice{}, err
	}

	marginAmount, err := money.Adjustment(unitCost, margin)
	if err != nil {
		return BatchPrice{}, err
	}
	// Un margen fijo no se acota al costo: es un recargo, no un descuento.
	if margin.Type() == money.RuleFixed {
		marginAmount = margin.Value().IntPart()
	}
	normal, err := money.Add(unitCost, marginAmount)
	if err != nil {
		return BatchPrice{}, err
	}

	promoAmount, err := money.Adjustment(normal, promo)
	if err != nil {
		return BatchPrice{}, err
	}
	final := max(normal-promoAmount, 0)

	return BatchPrice{
		MarginAmount:        marginAmount,
		NormalPrice:         normal,
		PromoDiscountAmount: promoAmount,
		FinalPrice:          final,
	}, nil
}
