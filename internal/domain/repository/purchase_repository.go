package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// PurchaseOrderRepository cabeceras de compras recibidas.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
}
