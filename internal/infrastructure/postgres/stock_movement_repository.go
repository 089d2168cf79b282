package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL. La tabla rechaza UPDATE y DELETE por trigger.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `seq, id, part_id, direction::text, quantity, stock_before, stock_after, unit_price,
	supplier_id, batch_id, source_kind::text, source_id, reason, created_by, created_at`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var (
		m                              entity.StockMovement
		direction, sourceKind          string
		supplierID, batchID, createdBy *string
	)
	err := row.Scan(&m.Sequence, &m.ID, &m.PartID, &direction, &m.Quantity, &m.StockBefore, &m.StockAfter, &m.UnitPrice,
		&supplierID, &batchID, &sourceKind, &m.Source.ID, &m.Reason, &createdBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Direction = entity.Direction(direction)
	m.Source.Kind = entity.SourceKind(sourceKind)
	m.SupplierID = derefString(supplierID)
	m.BatchID = derefString(batchID)
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}

// Create inserta el asiento y devuelve la secuencia asignada en m.Sequence.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (id, part_id, direction, quantity, stock_before, stock_after, unit_price,
			supplier_id, batch_id, source_kind, source_id, reason, created_by, created_at)
		VALUES ($1, $2, $3::stock_direction, $4, $5, $6, $7, $8, $9, $10::movement_source, $11, $12, $13, $14)
		RETURNING seq`,
		m.ID, m.PartID, string(m.Direction), m.Quantity, m.StockBefore, m.StockAfter, m.UnitPrice,
		nullString(m.SupplierID), nullString(m.BatchID), string(m.Source.Kind), m.Source.ID, m.Reason,
		nullString(m.CreatedBy), m.CreatedAt,
	).Scan(&m.Sequence)
	return mapError("create stock movement", err)
}

// LastByPart último asiento del repuesto; nil si no tiene historial.
func (r *StockMovementRepo) LastByPart(ctx context.Context, partID string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE part_id = $1 ORDER BY seq DESC LIMIT 1`, partID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("last stock movement", err)
	}
	return m, nil
}

// ListByPart asientos en orden de secuencia. limit <= 0 devuelve todos.
func (r *StockMovementRepo) ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE part_id = $1 ORDER BY seq OFFSET $2`
	args := []any{partID, max(offset, 0)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("list stock movements", err)
		}
		out = append(out, m)
	}
	return out, mapError("list stock movements", rows.Err())
}
