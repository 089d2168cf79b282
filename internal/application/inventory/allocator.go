package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
)

// Allocation resultado de asignar una línea de venta: asignaciones por lote y asientos de salida.
type Allocation struct {
	Allocations []*entity.SaleLineAllocation
	Movements   []*entity.StockMovement
}

// FIFOAllocator consume lotes del más antiguo al más nuevo.
type FIFOAllocator struct {
	ledger *StockLedger
	now    func() time.Time
}

// NewFIFOAllocator construye el asignador sobre el kardex.
func NewFIFOAllocator(ledger *StockLedger) *FIFOAllocator {
	return &FIFOAllocator{ledger: ledger, now: time.Now}
}

// Consume bloquea los lotes disponibles del repuesto, planifica FIFO y descuenta los restantes.
// No escribe en el kardex. Si no alcanza, devuelve *domain.InsufficientStockError sin tocar nada.
// part debe estar bloqueado por la transacción.
func (a *FIFOAllocator) Consume(ctx context.Context, repos Repositories, part *entity.Part, quantity int64) ([]inventory.Take, error) {
	batches, err := repos.Batches.ListAvailableForUpdate(ctx, part.ID)
	if err != nil {
		return nil, err
	}
	if avail := inventory.Available(batches); avail != part.Stock {
		a.ledger.log.Error().
			Str("part_id", part.ID).
			Int64("part_stock", part.Stock).
			Int64("batch_remaining", avail).
			Msg("stock del repuesto distinto de la suma de lotes")
		return nil, fmt.Errorf("repuesto %s: stock %d, lotes %d: %w", part.ID, part.Stock, avail, domain.ErrLedgerInconsistency)
	}

	takes, err := inventory.PlanFIFO(part.ID, batches, quantity)
	if err != nil {
		return nil, err
	}
	for _, t := range takes {
		if err := repos.Batches.UpdateRemaining(ctx, t.Batch.ID, t.Batch.QuantityRemaining-t.Quantity); err != nil {
			return nil, err
		}
	}
	inventory.Apply(takes)
	return takes, nil
}

// Allocate atiende una línea de venta: por cada lote tocado crea una asignación con costo y precio
// congelados y un asiento de salida; el stock del repuesto baja una sola vez por la cantidad total.
func (a *FIFOAllocator) Allocate(ctx context.Context, repos Repositories, part *entity.Part, quantity int64, saleID, saleLineID, operatorID string) (*Allocation, error) {
	takes, err := a.Consume(ctx, repos, part, quantity)
	if err != nil {
		return nil, err
	}

	now := a.now()
	out := &Allocation{Allocations: make([]*entity.SaleLineAllocation, 0, len(takes))}
	entries := make([]LedgerEntry, 0, len(takes))
	for _, t := range takes {
		alloc := &entity.SaleLineAllocation{
			ID:           uuid.Must(uuid.NewV7()).String(),
			SaleLineID:   saleLineID,
			BatchID:      t.Batch.ID,
			Quantity:     t.Quantity,
			CostPrice:    t.CostPrice,
			SellingPrice: t.SellingPrice,
			CreatedAt:    now,
		}
		if err := repos.Sales.CreateAllocation(ctx, alloc); err != nil {
			return nil, err
		}
		out.Allocations = append(out.Allocations, alloc)

		price := t.SellingPrice
		entries = append(entries, LedgerEntry{
			Direction: entity.DirectionOut,
			Quantity:  t.Quantity,
			BatchID:   t.Batch.ID,
			Source:    entity.SaleSource(saleID),
			UnitPrice: &price,
			CreatedBy: operatorID,
		})
	}

	out.Movements, err = a.ledger.Record(ctx, repos, part, entries...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
