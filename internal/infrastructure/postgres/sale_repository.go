package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas, líneas y asignaciones sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	discType, discValue := ruleColumns(s.OrderDiscountRule)
	taxType, taxValue := ruleColumns(s.TaxRule)
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, reference, customer_id, subtotal,
			order_discount_type, order_discount_value, order_discount_amount, after_discount,
			tax_type, tax_value, tax_amount, grand_total, cost_total, gross_profit, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5::rule_type, $6, $7, $8, $9::rule_type, $10, $11, $12, $13, $14, $15, $16)`,
		s.ID, s.Reference, nullString(s.CustomerID), s.Subtotal,
		discType, discValue, s.OrderDiscountAmount, s.AfterDiscount,
		taxType, taxValue, s.TaxAmount, s.GrandTotal, s.CostTotal, s.GrossProfit,
		nullString(s.CreatedBy), s.CreatedAt,
	)
	return mapError("create sale", err)
}

// CreateLine persiste una línea de venta.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	discType, discValue := ruleColumns(l.DiscountRule)
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_lines (id, sale_id, part_id, position, quantity, discount_type, discount_value,
			subtotal, discount_amount, final, cost_total)
		VALUES ($1, $2, $3, $4, $5, $6::rule_type, $7, $8, $9, $10, $11)`,
		l.ID, l.SaleID, l.PartID, l.Position, l.Quantity, discType, discValue,
		l.Subtotal, l.DiscountAmount, l.Final, l.CostTotal,
	)
	return mapError("create sale line", err)
}

// CreateAllocation persiste una asignación por lote. La FK a la línea se valida al commit.
func (r *SaleRepo) CreateAllocation(ctx context.Context, a *entity.SaleLineAllocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_line_allocations (id, sale_line_id, batch_id, quantity, cost_price, selling_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.SaleLineID, a.BatchID, a.Quantity, a.CostPrice, a.SellingPrice, a.CreatedAt,
	)
	return mapError("create sale allocation", err)
}

// GetByID cabecera de venta; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var (
		s                   entity.Sale
		discType, taxType   string
		discValue, taxValue decimal.Decimal
		customerID, creator *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, reference, customer_id, subtotal,
			order_discount_type::text, order_discount_value, order_discount_amount, after_discount,
			tax_type::text, tax_value, tax_amount, grand_total, cost_total, gross_profit, created_by, created_at
		FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.Reference, &customerID, &s.Subtotal,
		&discType, &discValue, &s.OrderDiscountAmount, &s.AfterDiscount,
		&taxType, &taxValue, &s.TaxAmount, &s.GrandTotal, &s.CostTotal, &s.GrossProfit, &creator, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get sale", err)
	}
	s.CustomerID = derefString(customerID)
	s.CreatedBy = derefString(creator)
	if s.OrderDiscountRule, err = scanRule(discType, discValue); err != nil {
		return nil, err
	}
	if s.TaxRule, err = scanRule(taxType, taxValue); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListLines líneas de la venta por posición.
func (r *SaleRepo) ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, part_id, position, quantity, discount_type::text, discount_value,
			subtotal, discount_amount, final, cost_total
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, mapError("list sale lines", err)
	}
	defer rows.Close()

	var out []*entity.SaleLine
	for rows.Next() {
		var (
			l         entity.SaleLine
			discType  string
			discValue decimal.Decimal
		)
		if err := rows.Scan(&l.ID, &l.SaleID, &l.PartID, &l.Position, &l.Quantity, &discType, &discValue,
			&l.Subtotal, &l.DiscountAmount, &l.Final, &l.CostTotal); err != nil {
			return nil, mapError("list sale lines", err)
		}
		if l.DiscountRule, err = scanRule(discType, discValue); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, mapError("list sale lines", rows.Err())
}

// ListAllocations asignaciones de una línea en orden de creación.
func (r *SaleRepo) ListAllocations(ctx context.Context, saleLineID string) ([]*entity.SaleLineAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_line_id, batch_id, quantity, cost_price, selling_price, created_at
		FROM sale_line_allocations WHERE sale_line_id = $1 ORDER BY created_at, id`, saleLineID)
	if err != nil {
		return nil, mapError("list allocations", err)
	}
	allocs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.SaleLineAllocation, error) {
		var a entity.SaleLineAllocation
		err := row.Scan(&a.ID, &a.SaleLineID, &a.BatchID, &a.Quantity, &a.CostPrice, &a.SellingPrice, &a.CreatedAt)
		return &a, err
	})
	if err != nil {
		return nil, mapError("list allocations", err)
	}
	return allocs, nil
}

// SumAllocatedByBatch unidades del lote asignadas a ventas.
func (r *SaleRepo) SumAllocatedByBatch(ctx context.Context, batchID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0)::bigint FROM sale_line_allocations WHERE batch_id = $1`, batchID).Scan(&sum)
	if err != nil {
		return 0, mapError("sum allocations", err)
	}
	return sum, nil
}
