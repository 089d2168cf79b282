package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/money"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
)

// AdjustStockInput ajuste manual con signo: positivo entra, negativo sale.
type AdjustStockInput struct {
	PartID     string
	Delta      int64
	Reason     string
	OperatorID string
}

// AdjustStockResult asientos escritos y stock resultante.
type AdjustStockResult struct {
	AdjustmentID string
	Movements    []*entity.StockMovement
	BatchID      string // lote abierto por un ajuste positivo
	PartStock    int64
}

// AdjustStockUseCase corrige el stock (conteo físico, merma, rotura) dejando rastro en el kardex.
// Un ajuste negativo consume lotes en FIFO; uno positivo abre un lote de ajuste para que
// el stock siga igual a la suma de restantes.
type AdjustStockUseCase struct {
	txRunner  TxRunner
	locker    PartLocker
	ledger    *StockLedger
	allocator *FIFOAllocator
	alerts    *AlertMaintainer
	now       func() time.Time
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, locker PartLocker, ledger *StockLedger, allocator *FIFOAllocator, alerts *AlertMaintainer) *AdjustStockUseCase {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &AdjustStockUseCase{txRunner: txRunner, locker: locker, ledger: ledger, allocator: allocator, alerts: alerts, now: time.Now}
}

// Adjust aplica el ajuste. Delta cero o motivo vacío: ErrInvalidInput.
// Un ajuste negativo mayor al stock: *domain.InsufficientStockError.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustStockInput) (*AdjustStockResult, error) {
	if in.PartID == "" || in.Delta == 0 {
		return nil, fmt.Errorf("ajuste sin repuesto o en cero: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("el ajuste requiere motivo: %w", domain.ErrInvalidInput)
	}

	release, err := uc.locker.Lock(ctx, []string{in.PartID})
	if err != nil {
		return nil, err
	}
	defer release()

	adjustmentID := uuid.Must(uuid.NewV7()).String()
	var result *AdjustStockResult
	err = uc.txRunner.Run(ctx, func(repos Repositories) error {
		parts, err := lockParts(ctx, repos, []string{in.PartID})
		if err != nil {
			return err
		}
		part := parts[in.PartID]
		res := &AdjustStockResult{AdjustmentID: adjustmentID}

		if in.Delta > 0 {
			batch, err := uc.adjustmentBatch(ctx, repos, part.ID, in.Delta, in.OperatorID)
			if err != nil {
				return err
			}
			if err := repos.Batches.Create(ctx, batch); err != nil {
				return err
			}
			res.BatchID = batch.ID
			res.Movements, err = uc.ledger.Record(ctx, repos, part, LedgerEntry{
				Direction: entity.DirectionIn,
				Quantity:  in.Delta,
				BatchID:   batch.ID,
				Source:    entity.AdjustmentSource(adjustmentID),
				Reason:    in.Reason,
				CreatedBy: in.OperatorID,
			})
			if err != nil {
				return err
			}
		} else {
			takes, err := uc.allocator.Consume(ctx, repos, part, -in.Delta)
			if err != nil {
				return err
			}
			entries := make([]LedgerEntry, 0, len(takes))
			for _, t := range takes {
				entries = append(entries, LedgerEntry{
					Direction: entity.DirectionOut,
					Quantity:  t.Quantity,
					BatchID:   t.Batch.ID,
					Source:    entity.AdjustmentSource(adjustmentID),
					Reason:    in.Reason,
					CreatedBy: in.OperatorID,
				})
			}
			res.Movements, err = uc.ledger.Record(ctx, repos, part, entries...)
			if err != nil {
				return err
			}
		}

		if err := uc.alerts.Reconcile(ctx, repos, part); err != nil {
			return err
		}
		res.PartStock = part.Stock
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// adjustmentBatch copia costo y reglas del último lote; sin historial, costo cero y margen fijo cero.
func (uc *AdjustStockUseCase) adjustmentBatch(ctx context.Context, repos Repositories, partID string, qty int64, operatorID string) (*entity.PurchaseBatch, error) {
	latest, err := repos.Batches.LatestByPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	cost, margin, promo := int64(0), money.MustFixed(0), money.None()
	if latest != nil {
		cost, margin, promo = latest.UnitCost, latest.MarginRule, latest.PromoRule
	}
	price, err := pricing.PriceBatch(cost, margin, promo)
	if err != nil {
		return nil, err
	}
	return &entity.PurchaseBatch{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		PartID:              partID,
		QuantityReceived:    qty,
		QuantityRemaining:   qty,
		UnitCost:            cost,
		MarginRule:          margin,
		PromoRule:           promo,
		NormalPrice:         price.NormalPrice,
		PromoDiscountAmount: price.PromoDiscountAmount,
		FinalPrice:          price.FinalPrice,
		ReceivedAt:          uc.now(),
		CreatedBy:           operatorID,
	}, nil
}
