package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentSuggestion sugerencia de pedido para un repuesto con alerta de stock bajo.
type ReplenishmentSuggestion struct {
	PartID        string
	PartName      string
	PartNumber    string
	RackLocation  string
	CurrentStock  int64
	MinimalStock  int64
	IdealStock    int64 // ceil(mínimo * 1.5)
	SuggestedQty  int64 // IdealStock - CurrentStock
	LastUnitCost  int64 // costo del último lote recibido
	EstimatedCost int64 // SuggestedQty * LastUnitCost
	Coverage      decimal.Decimal
	Priority      int // 1 = más urgente
}

// ReplenishmentUseCase arma la lista de reposición a partir de las alertas vigentes.
type ReplenishmentUseCase struct {
	repos Repositories
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repos Repositories) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repos: repos}
}

var idealFactor = decimal.RequireFromString("1.5")

// GenerateReplenishmentList devuelve una sugerencia por alerta, de la menor cobertura
// (stock / mínimo) a la mayor; a igual cobertura, primero el mayor costo estimado.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]ReplenishmentSuggestion, error) {
	alerts, err := uc.repos.Alerts.List(ctx, repository.AlertListOptions{SortBy: repository.AlertSortPartName})
	if err != nil {
		return nil, err
	}

	out := make([]ReplenishmentSuggestion, 0, len(alerts))
	for _, a := range alerts {
		ideal := decimal.NewFromInt(a.MinimalStock).Mul(idealFactor).Ceil().IntPart()
		s := ReplenishmentSuggestion{
			PartID:       a.PartID,
			PartName:     a.PartName,
			PartNumber:   a.PartNumber,
			RackLocation: a.RackLocation,
			CurrentStock: a.CurrentStock,
			MinimalStock: a.MinimalStock,
			IdealStock:   ideal,
			SuggestedQty: max(ideal-a.CurrentStock, 0),
		}
		if a.MinimalStock > 0 {
			s.Coverage = decimal.NewFromInt(a.CurrentStock).Div(decimal.NewFromInt(a.MinimalStock)).Round(2)
		}

		latest, err := uc.repos.Batches.LatestByPart(ctx, a.PartID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			s.LastUnitCost = latest.UnitCost
			s.EstimatedCost = s.SuggestedQty * latest.UnitCost
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Coverage.Equal(b.Coverage) {
			return a.Coverage.LessThan(b.Coverage)
		}
		return a.EstimatedCost > b.EstimatedCost
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
