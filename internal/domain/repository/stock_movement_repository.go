package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// StockMovementRepository puerto del kardex. Solo inserta; no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// LastByPart último asiento del repuesto (por secuencia) o nil si no hay.
	LastByPart(ctx context.Context, partID string) (*entity.StockMovement, error)
	// ListByPart asientos en orden de secuencia ascendente. limit <= 0 devuelve todos.
	ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.StockMovement, error)
}
