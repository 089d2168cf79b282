package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes de compra sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, part_id, purchase_order_id, quantity_received, quantity_remaining, unit_cost,
	margin_type::text, margin_value, promo_type::text, promo_value,
	normal_price, promo_discount_amount, final_price, received_at, created_by`

func scanBatch(row pgx.Row) (*entity.PurchaseBatch, error) {
	var (
		b                       entity.PurchaseBatch
		orderID, createdBy      *string
		marginType, promoType   string
		marginValue, promoValue decimal.Decimal
	)
	err := row.Scan(&b.ID, &b.PartID, &orderID, &b.QuantityReceived, &b.QuantityRemaining, &b.UnitCost,
		&marginType, &marginValue, &promoType, &promoValue,
		&b.NormalPrice, &b.PromoDiscountAmount, &b.FinalPrice, &b.ReceivedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	b.PurchaseOrderID = derefString(orderID)
	b.CreatedBy = derefString(createdBy)
	if b.MarginRule, err = scanRule(marginType, marginValue); err != nil {
		return nil, err
	}
	if b.PromoRule, err = scanRule(promoType, promoValue); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) queryBatches(ctx context.Context, op, sql string, args ...any) ([]*entity.PurchaseBatch, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	var out []*entity.PurchaseBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, b)
	}
	return out, mapError(op, rows.Err())
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(ctx context.Context, b *entity.PurchaseBatch) error {
	marginType, marginValue := ruleColumns(b.MarginRule)
	promoType, promoValue := ruleColumns(b.PromoRule)
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_batches (id, part_id, purchase_order_id, quantity_received, quantity_remaining, unit_cost,
			margin_type, margin_value, promo_type, promo_value,
			normal_price, promo_discount_amount, final_price, received_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7::rule_type, $8, $9::rule_type, $10, $11, $12, $13, $14, $15)`,
		b.ID, b.PartID, nullString(b.PurchaseOrderID), b.QuantityReceived, b.QuantityRemaining, b.UnitCost,
		marginType, marginValue, promoType, promoValue,
		b.NormalPrice, b.PromoDiscountAmount, b.FinalPrice, b.ReceivedAt, nullString(b.CreatedBy),
	)
	return mapError("create batch", err)
}

// GetByID lote por ID; nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM purchase_batches WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get batch", err)
	}
	return b, nil
}

// ListAvailableForUpdate lotes con restante en orden FIFO, bloqueados hasta el fin de la tx.
func (r *BatchRepo) ListAvailableForUpdate(ctx context.Context, partID string) ([]*entity.PurchaseBatch, error) {
	return r.queryBatches(ctx, "list available batches", `
		SELECT `+batchColumns+` FROM purchase_batches
		WHERE part_id = $1 AND quantity_remaining > 0
		ORDER BY received_at, id
		FOR UPDATE`, partID)
}

// ListByPart todos los lotes del repuesto en orden FIFO.
func (r *BatchRepo) ListByPart(ctx context.Context, partID string) ([]*entity.PurchaseBatch, error) {
	return r.queryBatches(ctx, "list batches", `
		SELECT `+batchColumns+` FROM purchase_batches
		WHERE part_id = $1 ORDER BY received_at, id`, partID)
}

// LatestByPart último lote recibido; nil si el repuesto no tiene lotes.
func (r *BatchRepo) LatestByPart(ctx context.Context, partID string) (*entity.PurchaseBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `
		SELECT `+batchColumns+` FROM purchase_batches
		WHERE part_id = $1 ORDER BY received_at DESC, id DESC LIMIT 1`, partID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("latest batch", err)
	}
	return b, nil
}

// UpdateRemaining escribe el restante; el CHECK de la tabla impide salir de [0, recibido].
func (r *BatchRepo) UpdateRemaining(ctx context.Context, id string, remaining int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_batches SET quantity_remaining = $2 WHERE id = $1`, id, remaining)
	if err != nil {
		return mapError("update batch remaining", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
