package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// ReconciliationReport resultado de conciliar un repuesto.
type ReconciliationReport struct {
	PartID         string
	PartStock      int64
	BatchRemaining int64
	LedgerStock    int64
	ReplayStock    int64
	Movements      int
	Batches        int
	Issues         []string
}

// OK true si no hubo diferencias.
func (r *ReconciliationReport) OK() bool { return len(r.Issues) == 0 }

func (r *ReconciliationReport) issue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// ReconciliationUseCase verifica, sin modificar nada, que stock, lotes, kardex y asignaciones cuadren.
type ReconciliationUseCase struct {
	txRunner TxRunner
	repos    Repositories
	log      *logger.Logger
}

// NewReconciliationUseCase construye el conciliador.
func NewReconciliationUseCase(txRunner TxRunner, repos Repositories, log *logger.Logger) *ReconciliationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReconciliationUseCase{txRunner: txRunner, repos: repos, log: log.Component("reconciliation")}
}

// CheckPart concilia un repuesto dentro de una transacción para leer una foto consistente.
func (uc *ReconciliationUseCase) CheckPart(ctx context.Context, partID string) (*ReconciliationReport, error) {
	var report *ReconciliationReport
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		part, err := repos.Parts.GetByID(ctx, partID)
		if err != nil {
			return err
		}
		if part == nil {
			return fmt.Errorf("repuesto %s: %w", partID, domain.ErrNotFound)
		}
		report, err = check(ctx, repos, part)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !report.OK() {
		uc.log.Part(partID).Warn().Strs("issues", report.Issues).Msg("repuesto con diferencias")
	}
	return report, nil
}

// CheckAll concilia todos los repuestos y devuelve solo los que tienen diferencias.
// Un repuesto que falla por error de lectura no detiene el resto.
func (uc *ReconciliationUseCase) CheckAll(ctx context.Context) (checked int, failing []*ReconciliationReport, err error) {
	ids, err := uc.repos.Parts.ListIDs(ctx)
	if err != nil {
		return 0, nil, err
	}
	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			return checked, failing, ctx.Err()
		}
		r, err := uc.CheckPart(ctx, id)
		if err != nil {
			uc.log.Part(id).Error().Err(err).Msg("no se pudo conciliar el repuesto")
			errs = append(errs, err)
			continue
		}
		checked++
		if !r.OK() {
			failing = append(failing, r)
		}
	}
	uc.log.Info().Int("checked", checked).Int("failing", len(failing)).Msg("conciliación terminada")
	return checked, failing, errors.Join(errs...)
}

func check(ctx context.Context, repos Repositories, part *entity.Part) (*ReconciliationReport, error) {
	movs, err := repos.Movements.ListByPart(ctx, part.ID, 0, 0)
	if err != nil {
		return nil, err
	}
	batches, err := repos.Batches.ListByPart(ctx, part.ID)
	if err != nil {
		return nil, err
	}

	r := &ReconciliationReport{
		PartID:         part.ID,
		PartStock:      part.Stock,
		BatchRemaining: inventory.Available(batches),
		ReplayStock:    inventory.Replay(movs),
		Movements:      len(movs),
		Batches:        len(batches),
	}

	if tail, err := inventory.VerifyChain(movs); err != nil {
		r.issue("cadena del kardex rota: %v", err)
	} else {
		r.LedgerStock = tail
		if tail != part.Stock {
			r.issue("stock %d distinto del último asiento %d", part.Stock, tail)
		}
	}
	if r.ReplayStock != part.Stock {
		r.issue("stock %d distinto de la suma de asientos %d", part.Stock, r.ReplayStock)
	}
	if r.BatchRemaining != part.Stock {
		r.issue("stock %d distinto de la suma de lotes %d", part.Stock, r.BatchRemaining)
	}

	outByBatch := make(map[string]int64)
	saleOutByBatch := make(map[string]int64)
	inByBatch := make(map[string]int64)
	for _, m := range movs {
		if m.BatchID == "" {
			continue
		}
		switch m.Direction {
		case entity.DirectionIn:
			inByBatch[m.BatchID] += m.Quantity
		case entity.DirectionOut:
			outByBatch[m.BatchID] += m.Quantity
			if m.Source.Kind == entity.SourceSale {
				saleOutByBatch[m.BatchID] += m.Quantity
			}
		}
	}
	for _, b := range batches {
		if b.QuantityRemaining < 0 || b.QuantityRemaining > b.QuantityReceived {
			r.issue("lote %s: restante %d fuera de rango (recibido %d)", b.ID, b.QuantityRemaining, b.QuantityReceived)
		}
		if in := inByBatch[b.ID]; in != b.QuantityReceived {
			r.issue("lote %s: recibido %d, entradas en kardex %d", b.ID, b.QuantityReceived, in)
		}
		if consumed := b.QuantityReceived - b.QuantityRemaining; consumed != outByBatch[b.ID] {
			r.issue("lote %s: consumido %d, salidas en kardex %d", b.ID, consumed, outByBatch[b.ID])
		}
		allocated, err := repos.Sales.SumAllocatedByBatch(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if allocated != saleOutByBatch[b.ID] {
			r.issue("lote %s: asignado a ventas %d, salidas por venta %d", b.ID, allocated, saleOutByBatch[b.ID])
		}
	}
	return r, nil
}
