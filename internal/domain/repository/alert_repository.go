package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Campos de orden permitidos para el listado de alertas.
const (
	AlertSortPartName     = "part_name"
	AlertSortPartNumber   = "part_number"
	AlertSortRackLocation = "rack_location"
	AlertSortCurrentStock = "current_stock"
	AlertSortMinimalStock = "minimal_stock"
)

// AlertListOptions orden del listado.
type AlertListOptions struct {
	SortBy string
	Desc   bool
}

// LowStockAlertRepository alertas de stock bajo (una por repuesto).
type LowStockAlertRepository interface {
	Get(ctx context.Context, partID string) (*entity.LowStockAlert, error)
	// Upsert inserta o reemplaza la alerta del repuesto (ON CONFLICT part_id).
	Upsert(ctx context.Context, alert *entity.LowStockAlert) error
	Delete(ctx context.Context, partID string) error
	MarkRead(ctx context.Context, partID string) error
	List(ctx context.Context, opts AlertListOptions) ([]*entity.LowStockAlertView, error)
}
