package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.LowStockAlertRepository = (*LowStockAlertRepo)(nil)

// LowStockAlertRepo alertas de stock bajo sobre PostgreSQL (una fila por repuesto).
type LowStockAlertRepo struct {
	q Querier
}

// NewLowStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLowStockAlertRepository(q Querier) *LowStockAlertRepo {
	return &LowStockAlertRepo{q: q}
}

// alertOrderColumns lista blanca de columnas de orden; nunca se interpola texto del request.
var alertOrderColumns = map[string]string{
	repository.AlertSortPartName:     "p.name",
	repository.AlertSortPartNumber:   "p.part_number",
	repository.AlertSortRackLocation: "p.rack_location",
	repository.AlertSortCurrentStock: "a.current_stock",
	repository.AlertSortMinimalStock: "a.minimal_stock",
}

// Get alerta del repuesto; nil si no hay.
func (r *LowStockAlertRepo) Get(ctx context.Context, partID string) (*entity.LowStockAlert, error) {
	var a entity.LowStockAlert
	err := r.q.QueryRow(ctx, `
		SELECT part_id, current_stock, minimal_stock, is_read, created_at, updated_at
		FROM low_stock_alerts WHERE part_id = $1`, partID).Scan(
		&a.PartID, &a.CurrentStock, &a.MinimalStock, &a.IsRead, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get alert", err)
	}
	return &a, nil
}

// Upsert inserta o reemplaza la alerta (ON CONFLICT part_id); created_at se conserva.
func (r *LowStockAlertRepo) Upsert(ctx context.Context, a *entity.LowStockAlert) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO low_stock_alerts (part_id, current_stock, minimal_stock, is_read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (part_id) DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			minimal_stock = EXCLUDED.minimal_stock,
			is_read       = EXCLUDED.is_read,
			updated_at    = EXCLUDED.updated_at`,
		a.PartID, a.CurrentStock, a.MinimalStock, a.IsRead, a.CreatedAt, a.UpdatedAt)
	return mapError("upsert alert", err)
}

// Delete elimina la alerta si existe.
func (r *LowStockAlertRepo) Delete(ctx context.Context, partID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM low_stock_alerts WHERE part_id = $1`, partID)
	return mapError("delete alert", err)
}

// MarkRead marca la alerta como leída; ErrNotFound si el repuesto no tiene alerta.
func (r *LowStockAlertRepo) MarkRead(ctx context.Context, partID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE low_stock_alerts SET is_read = true WHERE part_id = $1`, partID)
	if err != nil {
		return mapError("mark alert read", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alerta de %s: %w", partID, domain.ErrNotFound)
	}
	return nil
}

// List alertas con datos del repuesto, ordenadas por el campo pedido y luego por part_id.
func (r *LowStockAlertRepo) List(ctx context.Context, opts repository.AlertListOptions) ([]*entity.LowStockAlertView, error) {
	col, ok := alertOrderColumns[opts.SortBy]
	if !ok {
		col = alertOrderColumns[repository.AlertSortPartName]
	}
	dir := "ASC"
	if opts.Desc {
		dir = "DESC"
	}
	rows, err := r.q.Query(ctx, `
		SELECT a.part_id, a.current_stock, a.minimal_stock, a.is_read, a.created_at, a.updated_at,
			p.name, p.part_number, p.rack_location
		FROM low_stock_alerts a
		JOIN parts p ON p.id = a.part_id
		ORDER BY `+col+` `+dir+`, a.part_id`)
	if err != nil {
		return nil, mapError("list alerts", err)
	}
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.LowStockAlertView, error) {
		var v entity.LowStockAlertView
		err := row.Scan(&v.PartID, &v.CurrentStock, &v.MinimalStock, &v.IsRead, &v.CreatedAt, &v.UpdatedAt,
			&v.PartName, &v.PartNumber, &v.RackLocation)
		return &v, err
	})
	if err != nil {
		return nil, mapError("list alerts", err)
	}
	return views, nil
}
