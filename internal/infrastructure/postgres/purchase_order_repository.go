package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo cabeceras de compra sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la cabecera con los totales ya calculados.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	discType, discValue := ruleColumns(o.OrderDiscountRule)
	taxType, taxValue := ruleColumns(o.TaxRule)
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, reference, supplier_id, subtotal,
			order_discount_type, order_discount_value, order_discount_amount, after_discount,
			tax_type, tax_value, tax_amount, grand_total, received_at, created_by)
		VALUES ($1, $2, $3, $4, $5::rule_type, $6, $7, $8, $9::rule_type, $10, $11, $12, $13, $14)`,
		o.ID, o.Reference, o.SupplierID, o.Subtotal,
		discType, discValue, o.OrderDiscountAmount, o.AfterDiscount,
		taxType, taxValue, o.TaxAmount, o.GrandTotal, o.ReceivedAt, nullString(o.CreatedBy),
	)
	return mapError("create purchase order", err)
}

// GetByID cabecera por ID; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var (
		o                   entity.PurchaseOrder
		discType, taxType   string
		discValue, taxValue decimal.Decimal
		createdBy           *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, reference, supplier_id, subtotal,
			order_discount_type::text, order_discount_value, order_discount_amount, after_discount,
			tax_type::text, tax_value, tax_amount, grand_total, received_at, created_by
		FROM purchase_orders WHERE id = $1`, id).Scan(
		&o.ID, &o.Reference, &o.SupplierID, &o.Subtotal,
		&discType, &discValue, &o.OrderDiscountAmount, &o.AfterDiscount,
		&taxType, &taxValue, &o.TaxAmount, &o.GrandTotal, &o.ReceivedAt, &createdBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get purchase order", err)
	}
	o.CreatedBy = derefString(createdBy)
	if o.OrderDiscountRule, err = scanRule(discType, discValue); err != nil {
		return nil, err
	}
	if o.TaxRule, err = scanRule(taxType, taxValue); err != nil {
		return nil, err
	}
	return &o, nil
}
