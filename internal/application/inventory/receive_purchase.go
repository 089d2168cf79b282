package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/money"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
)

// ReceiptLineInput una línea de la compra recibida; se convierte en un lote.
type ReceiptLineInput struct {
	PartID   string
	Quantity int64
	UnitCost int64
	Margin   money.Rule
	Promo    money.Rule
	Discount money.Rule // descuento del proveedor sobre la línea (solo totales del documento)
}

// ReceivePurchaseInput entrada de la recepción de compra.
type ReceivePurchaseInput struct {
	SupplierID    string
	Reference     string
	OperatorID    string
	OrderDiscount money.Rule
	Tax           money.Rule
	Lines         []ReceiptLineInput
}

// ReceiptLineResult resultado por línea.
type ReceiptLineResult struct {
	PartID     string
	BatchID    string
	MovementID string
	PartStock  int64
	Price      pricing.BatchPrice
}

// ReceivePurchaseResult resultado de la recepción.
type ReceivePurchaseResult struct {
	PurchaseOrderID string
	Lines           []ReceiptLineResult
	Totals          pricing.Totals
}

// ReceivePurchaseUseCase recibe mercadería: un lote por línea, asiento de entrada, stock y alertas,
// todo en una sola transacción.
type ReceivePurchaseUseCase struct {
	txRunner TxRunner
	locker   PartLocker
	ledger   *StockLedger
	alerts   *AlertMaintainer
	now      func() time.Time
}

// NewReceivePurchaseUseCase construye el caso de uso.
func NewReceivePurchaseUseCase(txRunner TxRunner, locker PartLocker, ledger *StockLedger, alerts *AlertMaintainer) *ReceivePurchaseUseCase {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &ReceivePurchaseUseCase{txRunner: txRunner, locker: locker, ledger: ledger, alerts: alerts, now: time.Now}
}

// Receive valida y precia todas las líneas antes de abrir la transacción; luego crea la cabecera,
// los lotes y los asientos de entrada.
func (uc *ReceivePurchaseUseCase) Receive(ctx context.Context, in ReceivePurchaseInput) (*ReceivePurchaseResult, error) {
	if len(in.Lines) == 0 || in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}

	prices := make([]pricing.BatchPrice, len(in.Lines))
	docLines := make([]pricing.Line, len(in.Lines))
	partIDs := make([]string, len(in.Lines))
	for i, l := range in.Lines {
		if l.PartID == "" || l.Quantity <= 0 {
			return nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidInput)
		}
		p, err := pricing.PriceBatch(l.UnitCost, l.Margin, l.Promo)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		prices[i] = p
		docLines[i] = pricing.NewLine(l.Quantity, l.UnitCost, l.Discount)
		partIDs[i] = l.PartID
	}
	totals, err := pricing.ComputeTotals(docLines, in.OrderDiscount, in.Tax)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, distinctSorted(partIDs))
	if err != nil {
		return nil, err
	}
	defer release()

	now := uc.now()
	order := &entity.PurchaseOrder{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		Reference:           in.Reference,
		SupplierID:          in.SupplierID,
		Subtotal:            totals.Subtotal,
		OrderDiscountRule:   in.OrderDiscount,
		OrderDiscountAmount: totals.OrderDiscountAmount,
		AfterDiscount:       totals.AfterDiscount,
		TaxRule:             in.Tax,
		TaxAmount:           totals.TaxAmount,
		GrandTotal:          totals.GrandTotal,
		ReceivedAt:          now,
		CreatedBy:           in.OperatorID,
	}
	if order.Reference == "" {
		order.Reference = fmt.Sprintf("PO-%d", now.Unix())
	}

	result := &ReceivePurchaseResult{PurchaseOrderID: order.ID, Totals: totals}
	err = uc.txRunner.Run(ctx, func(repos Repositories) error {
		result.Lines = result.Lines[:0]
		parts, err := lockParts(ctx, repos, partIDs)
		if err != nil {
			return err
		}
		if err := repos.Purchases.Create(ctx, order); err != nil {
			return err
		}

		for i, l := range in.Lines {
			part := parts[l.PartID]
			price := prices[i]
			batch := &entity.PurchaseBatch{
				ID:                  uuid.Must(uuid.NewV7()).String(),
				PartID:              l.PartID,
				PurchaseOrderID:     order.ID,
				QuantityReceived:    l.Quantity,
				QuantityRemaining:   l.Quantity,
				UnitCost:            l.UnitCost,
				MarginRule:          l.Margin,
				PromoRule:           l.Promo,
				NormalPrice:         price.NormalPrice,
				PromoDiscountAmount: price.PromoDiscountAmount,
				FinalPrice:          price.FinalPrice,
				ReceivedAt:          now,
				CreatedBy:           in.OperatorID,
			}
			if err := repos.Batches.Create(ctx, batch); err != nil {
				return err
			}
			unitCost := l.UnitCost
			movs, err := uc.ledger.Record(ctx, repos, part, LedgerEntry{
				Direction:  entity.DirectionIn,
				Quantity:   l.Quantity,
				BatchID:    batch.ID,
				Source:     entity.PurchaseSource(order.ID),
				UnitPrice:  &unitCost,
				SupplierID: in.SupplierID,
				CreatedBy:  in.OperatorID,
			})
			if err != nil {
				return err
			}
			if part.SupplierID != in.SupplierID {
				if err := repos.Parts.UpdateSupplier(ctx, part.ID, in.SupplierID); err != nil {
					return err
				}
				part.SupplierID = in.SupplierID
			}
			if err := uc.alerts.Reconcile(ctx, repos, part); err != nil {
				return err
			}
			result.Lines = append(result.Lines, ReceiptLineResult{
				PartID:     part.ID,
				BatchID:    batch.ID,
				MovementID: movs[0].ID,
				PartStock:  part.Stock,
				Price:      price,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
