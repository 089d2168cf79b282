// Package inventory contiene las reglas puras del motor de costeo: plan FIFO, cadena del kardex,
// decisión de alertas y valorización. No conoce transacciones ni almacenamiento.
package inventory

import (
	"sort"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Take cantidad a tomar de un lote, con costo y precio congelados del lote.
type Take struct {
	Batch        *entity.PurchaseBatch
	Quantity     int64
	CostPrice    int64
	SellingPrice int64
}

// SortFIFO ordena lotes por fecha de ingreso ascendente; empates por ID ascendente.
func SortFIFO(batches []*entity.PurchaseBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.ID < b.ID
	})
}

// Available suma de cantidades restantes.
func Available(batches []*entity.PurchaseBatch) int64 {
	var total int64
	for _, b := range batches {
		total += b.QuantityRemaining
	}
	return total
}

// PlanFIFO decide de qué lotes sale la cantidad pedida sin modificar los lotes.
// Si el total disponible no alcanza, devuelve *domain.InsufficientStockError y ningún plan.
func PlanFIFO(partID string, batches []*entity.PurchaseBatch, quantity int64) ([]Take, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if avail := Available(batches); avail < quantity {
		return nil, &domain.InsufficientStockError{PartID: partID, Requested: quantity, Available: avail}
	}

	ordered := make([]*entity.PurchaseBatch, len(batches))
	copy(ordered, batches)
	SortFIFO(ordered)

	needed := quantity
	takes := make([]Take, 0, 2)
	for _, b := range ordered {
		if needed == 0 {
			break
		}
		if b.QuantityRemaining <= 0 {
			continue
		}
		qty := min(b.QuantityRemaining, needed)
		takes = append(takes, Take{
			Batch:        b,
			Quantity:     qty,
			CostPrice:    b.UnitCost,
			SellingPrice: b.FinalPrice,
		})
		needed -= qty
	}
	return takes, nil
}

// Apply descuenta del lote las cantidades del plan.
func Apply(takes []Take) {
	for _, t := range takes {
		t.Batch.QuantityRemaining -= t.Quantity
	}
}
