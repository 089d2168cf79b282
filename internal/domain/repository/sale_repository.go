package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// SaleRepository ventas, líneas y asignaciones por lote.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	CreateAllocation(ctx context.Context, alloc *entity.SaleLineAllocation) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
	ListAllocations(ctx context.Context, saleLineID string) ([]*entity.SaleLineAllocation, error)
	// SumAllocatedByBatch total asignado a ventas desde un lote.
	SumAllocatedByBatch(ctx context.Context, batchID string) (int64, error)
}
