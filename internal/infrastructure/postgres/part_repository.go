package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación de PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, name, part_number, barcode, category_id, supplier_id, stock, minimal_stock, rack_location, created_at, updated_at`

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	var barcode, categoryID, supplierID *string
	err := row.Scan(&p.ID, &p.Name, &p.PartNumber, &barcode, &categoryID, &supplierID,
		&p.Stock, &p.MinimalStock, &p.RackLocation, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Barcode = derefString(barcode)
	p.CategoryID = derefString(categoryID)
	p.SupplierID = derefString(supplierID)
	return &p, nil
}

// GetByID obtiene un repuesto; nil si no existe.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get part", err)
	}
	return p, nil
}

// GetForUpdate obtiene el repuesto y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get part for update", err)
	}
	return p, nil
}

// UpdateStock escribe el agregado de stock.
func (r *PartRepo) UpdateStock(ctx context.Context, id string, stock int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE parts SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return mapError("update part stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSupplier registra el último proveedor.
func (r *PartRepo) UpdateSupplier(ctx context.Context, id, supplierID string) error {
	_, err := r.q.Exec(ctx, `UPDATE parts SET supplier_id = $2, updated_at = now() WHERE id = $1`, id, nullString(supplierID))
	return mapError("update part supplier", err)
}

// ListIDs todos los IDs de repuesto en orden.
func (r *PartRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM parts ORDER BY id`)
	if err != nil {
		return nil, mapError("list part ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError("list part ids", err)
	}
	return ids, nil
}
