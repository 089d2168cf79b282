package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// LedgerEntry datos de un asiento a registrar.
type LedgerEntry struct {
	Direction  entity.Direction
	Quantity   int64
	BatchID    string
	Source     entity.SourceRef
	UnitPrice  *int64
	SupplierID string
	Reason     string
	CreatedBy  string
}

// StockLedger único camino de escritura del stock: agrega asientos al kardex y actualiza
// el agregado del repuesto en la misma transacción.
type StockLedger struct {
	log *logger.Logger
	now func() time.Time
}

// NewStockLedger construye el kardex.
func NewStockLedger(log *logger.Logger) *StockLedger {
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedger{log: log.Component("stock_ledger"), now: time.Now}
}

// Record registra los asientos en orden y escribe el nuevo stock del repuesto en un solo UPDATE.
// part debe estar bloqueado por la transacción del caller (PartRepository.GetForUpdate).
// Si el último asiento no coincide con el stock del repuesto devuelve ErrLedgerInconsistency
// (no reintentable) y lo deja en el log para conciliación manual.
func (l *StockLedger) Record(ctx context.Context, repos Repositories, part *entity.Part, entries ...LedgerEntry) ([]*entity.StockMovement, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	last, err := repos.Movements.LastByPart(ctx, part.ID)
	if err != nil {
		return nil, err
	}
	var tail int64
	if last != nil {
		tail = last.StockAfter
	}
	if tail != part.Stock {
		l.log.Part(part.ID).Error().
			Int64("part_stock", part.Stock).
			Int64("ledger_stock", tail).
			Msg("kardex y stock del repuesto no coinciden; se requiere conciliación manual")
		return nil, fmt.Errorf("repuesto %s: stock %d, kardex %d: %w", part.ID, part.Stock, tail, domain.ErrLedgerInconsistency)
	}

	now := l.now()
	movements := make([]*entity.StockMovement, 0, len(entries))
	for _, e := range entries {
		if err := e.Source.Validate(); err != nil {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
		}
		if e.Direction != entity.DirectionIn && e.Direction != entity.DirectionOut {
			return nil, fmt.Errorf("sentido %q: %w", e.Direction, domain.ErrInvalidInput)
		}
		movements = append(movements, &entity.StockMovement{
			ID:         uuid.Must(uuid.NewV7()).String(),
			PartID:     part.ID,
			Direction:  e.Direction,
			Quantity:   e.Quantity,
			UnitPrice:  e.UnitPrice,
			SupplierID: e.SupplierID,
			BatchID:    e.BatchID,
			Source:     e.Source,
			Reason:     e.Reason,
			CreatedBy:  e.CreatedBy,
			CreatedAt:  now,
		})
	}

	final, err := inventory.ChainEntries(part.Stock, movements)
	if err != nil {
		return nil, err
	}
	for _, m := range movements {
		if err := repos.Movements.Create(ctx, m); err != nil {
			return nil, err
		}
	}
	if err := repos.Parts.UpdateStock(ctx, part.ID, final); err != nil {
		return nil, err
	}
	part.Stock = final
	return movements, nil
}

// lockParts bloquea los repuestos en orden ascendente de ID y los devuelve por ID.
func lockParts(ctx context.Context, repos Repositories, ids []string) (map[string]*entity.Part, error) {
	parts := make(map[string]*entity.Part, len(ids))
	for _, id := range distinctSorted(ids) {
		p, err := repos.Parts.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("repuesto %s: %w", id, domain.ErrNotFound)
		}
		parts[id] = p
	}
	return parts, nil
}
