package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Valuation valor del inventario vivo de un repuesto según sus lotes.
type Valuation struct {
	Quantity        int64
	TotalCost       int64
	AverageUnitCost decimal.Decimal // promedio ponderado, solo informativo
}

// CostCalculator valoriza las unidades restantes al costo de su lote.
// Promedio = Σ(restante × costo) / Σ restante; cero si no hay unidades.
func CostCalculator(batches []*entity.PurchaseBatch) Valuation {
	var v Valuation
	for _, b := range batches {
		v.Quantity += b.QuantityRemaining
		v.TotalCost += b.QuantityRemaining * b.UnitCost
	}
	if v.Quantity > 0 {
		v.AverageUnitCost = decimal.NewFromInt(v.TotalCost).Div(decimal.NewFromInt(v.Quantity)).Round(2)
	}
	return v
}
