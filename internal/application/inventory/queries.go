package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura y operaciones sobre alertas.
type QueryUseCase struct {
	repos    Repositories
	txRunner TxRunner
	alerts   *AlertMaintainer
}

// NewQueryUseCase repos es el juego atado al pool (fuera de transacción).
func NewQueryUseCase(repos Repositories, txRunner TxRunner, alerts *AlertMaintainer) *QueryUseCase {
	return &QueryUseCase{repos: repos, txRunner: txRunner, alerts: alerts}
}

var alertSortFields = map[string]struct{}{
	repository.AlertSortPartName:     {},
	repository.AlertSortPartNumber:   {},
	repository.AlertSortRackLocation: {},
	repository.AlertSortCurrentStock: {},
	repository.AlertSortMinimalStock: {},
}

// ListAlerts lista las alertas con los datos del repuesto. sortBy vacío ordena por nombre.
// order acepta "asc" o "desc".
func (uc *QueryUseCase) ListAlerts(ctx context.Context, sortBy, order string) ([]*entity.LowStockAlertView, error) {
	if sortBy == "" {
		sortBy = repository.AlertSortPartName
	}
	if _, ok := alertSortFields[sortBy]; !ok {
		return nil, fmt.Errorf("campo de orden %q: %w", sortBy, domain.ErrInvalidInput)
	}
	var desc bool
	switch order {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, fmt.Errorf("sentido de orden %q: %w", order, domain.ErrInvalidInput)
	}
	return uc.repos.Alerts.List(ctx, repository.AlertListOptions{SortBy: sortBy, Desc: desc})
}

// MarkAlertRead marca la alerta del repuesto como leída. ErrNotFound si no hay alerta.
func (uc *QueryUseCase) MarkAlertRead(ctx context.Context, partID string) error {
	return uc.repos.Alerts.MarkRead(ctx, partID)
}

// ReconcileAlert recalcula la alerta del repuesto contra su stock actual.
// Devuelve la alerta vigente o nil si el repuesto ya no está bajo mínimo.
func (uc *QueryUseCase) ReconcileAlert(ctx context.Context, partID string) (*entity.LowStockAlert, error) {
	var alert *entity.LowStockAlert
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		parts, err := lockParts(ctx, repos, []string{partID})
		if err != nil {
			return err
		}
		if err := uc.alerts.Reconcile(ctx, repos, parts[partID]); err != nil {
			return err
		}
		alert, err = repos.Alerts.Get(ctx, partID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// Movements historial del kardex del repuesto, paginado en orden de registro.
func (uc *QueryUseCase) Movements(ctx context.Context, partID string, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := uc.part(ctx, partID); err != nil {
		return nil, err
	}
	return uc.repos.Movements.ListByPart(ctx, partID, limit, offset)
}

// BatchesView lotes del repuesto y su valorización al costo.
type BatchesView struct {
	Batches   []*entity.PurchaseBatch
	Valuation inventory.Valuation
}

// Batches lotes del repuesto en orden FIFO, incluidos los agotados.
func (uc *QueryUseCase) Batches(ctx context.Context, partID string) (*BatchesView, error) {
	if _, err := uc.part(ctx, partID); err != nil {
		return nil, err
	}
	batches, err := uc.repos.Batches.ListByPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	return &BatchesView{Batches: batches, Valuation: inventory.CostCalculator(batches)}, nil
}

// Sale venta con líneas y asignaciones.
func (uc *QueryUseCase) Sale(ctx context.Context, id string) (*SaleResult, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("venta %s: %w", id, domain.ErrNotFound)
	}
	lines, err := uc.repos.Sales.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &SaleResult{Sale: sale, Lines: make([]SaleLineResult, 0, len(lines))}
	for _, l := range lines {
		allocs, err := uc.repos.Sales.ListAllocations(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, SaleLineResult{Line: l, Allocations: allocs})
	}
	return out, nil
}

func (uc *QueryUseCase) part(ctx context.Context, id string) (*entity.Part, error) {
	p, err := uc.repos.Parts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("repuesto %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}
