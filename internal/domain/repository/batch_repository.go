package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes de compra.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.PurchaseBatch) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseBatch, error)
	// ListAvailableForUpdate lotes con restante > 0, en orden FIFO (received_at, id), bloqueados.
	ListAvailableForUpdate(ctx context.Context, partID string) ([]*entity.PurchaseBatch, error)
	// ListByPart todos los lotes del repuesto en orden FIFO, incluidos los agotados.
	ListByPart(ctx context.Context, partID string) ([]*entity.PurchaseBatch, error)
	// LatestByPart último lote recibido o nil.
	LatestByPart(ctx context.Context, partID string) (*entity.PurchaseBatch, error)
	UpdateRemaining(ctx context.Context, id string, remaining int64) error
}
