package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
)

// AlertMaintainer mantiene la alerta única de stock bajo de cada repuesto.
// Se invoca como último paso de la transacción que movió el stock, con el repuesto ya actualizado.
type AlertMaintainer struct {
	now func() time.Time
}

// NewAlertMaintainer construye el mantenedor de alertas.
func NewAlertMaintainer() *AlertMaintainer {
	return &AlertMaintainer{now: time.Now}
}

// Reconcile crea/refresca la alerta si stock <= mínimo (y mínimo > 0); si no, la elimina.
// Es idempotente: si la alerta ya tiene las mismas fotos de stock no escribe nada
// (y no pisa la marca de leída).
func (m *AlertMaintainer) Reconcile(ctx context.Context, repos Repositories, part *entity.Part) error {
	switch inventory.DecideAlert(part.Stock, part.MinimalStock) {
	case inventory.AlertUpsert:
		existing, err := repos.Alerts.Get(ctx, part.ID)
		if err != nil {
			return err
		}
		now := m.now()
		alert := &entity.LowStockAlert{
			PartID:       part.ID,
			CurrentStock: part.Stock,
			MinimalStock: part.MinimalStock,
			IsRead:       false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if existing != nil {
			if existing.CurrentStock == part.Stock && existing.MinimalStock == part.MinimalStock {
				return nil
			}
			alert.CreatedAt = existing.CreatedAt
		}
		return repos.Alerts.Upsert(ctx, alert)
	default:
		return repos.Alerts.Delete(ctx, part.ID)
	}
}
