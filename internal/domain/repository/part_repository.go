package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// PartRepository define el puerto de persistencia para repuestos (DIP).
// El catálogo (alta/edición) vive fuera de este módulo; aquí solo se lee y se actualiza el stock.
type PartRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	// GetForUpdate bloquea la fila del repuesto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Part, error)
	// UpdateStock escribe el agregado de stock; solo lo llama el kardex.
	UpdateStock(ctx context.Context, id string, stock int64) error
	UpdateSupplier(ctx context.Context, id, supplierID string) error
	ListIDs(ctx context.Context) ([]string, error)
}
