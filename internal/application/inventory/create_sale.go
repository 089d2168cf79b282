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

// SaleLineInput línea de venta pedida por el operador.
type SaleLineInput struct {
	PartID   string
	Quantity int64
	Discount money.Rule
}

// CreateSaleInput entrada de la venta.
type CreateSaleInput struct {
	Reference     string
	CustomerID    string
	OperatorID    string
	OrderDiscount money.Rule
	Tax           money.Rule
	Lines         []SaleLineInput
}

// SaleLineResult línea vendida con sus asignaciones por lote.
type SaleLineResult struct {
	Line        *entity.SaleLine
	Allocations []*entity.SaleLineAllocation
	MovementIDs []string
}

// SaleResult venta completa.
type SaleResult struct {
	Sale  *entity.Sale
	Lines []SaleLineResult
}

// CreateSaleUseCase vende repuestos: asigna FIFO, escribe el kardex, calcula totales con los
// precios congelados de cada lote y mantiene las alertas. Todo o nada.
type CreateSaleUseCase struct {
	txRunner  TxRunner
	locker    PartLocker
	allocator *FIFOAllocator
	alerts    *AlertMaintainer
	now       func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner TxRunner, locker PartLocker, allocator *FIFOAllocator, alerts *AlertMaintainer) *CreateSaleUseCase {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &CreateSaleUseCase{txRunner: txRunner, locker: locker, allocator: allocator, alerts: alerts, now: time.Now}
}

// Create registra la venta. Si alguna línea no tiene stock suficiente devuelve
// *domain.InsufficientStockError de la primera línea que falla y no persiste nada.
func (uc *CreateSaleUseCase) Create(ctx context.Context, in CreateSaleInput) (*SaleResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := in.OrderDiscount.ValidateDiscount(); err != nil {
		return nil, err
	}
	partIDs := make([]string, len(in.Lines))
	for i, l := range in.Lines {
		if l.PartID == "" || l.Quantity <= 0 {
			return nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidInput)
		}
		if err := l.Discount.ValidateDiscount(); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		partIDs[i] = l.PartID
	}

	release, err := uc.locker.Lock(ctx, distinctSorted(partIDs))
	if err != nil {
		return nil, err
	}
	defer release()

	var result *SaleResult
	err = uc.txRunner.Run(ctx, func(repos Repositories) error {
		parts, err := lockParts(ctx, repos, partIDs)
		if err != nil {
			return err
		}

		now := uc.now()
		sale := &entity.Sale{
			ID:                uuid.Must(uuid.NewV7()).String(),
			Reference:         in.Reference,
			CustomerID:        in.CustomerID,
			OrderDiscountRule: in.OrderDiscount,
			TaxRule:           in.Tax,
			CreatedBy:         in.OperatorID,
			CreatedAt:         now,
		}
		if sale.Reference == "" {
			sale.Reference = fmt.Sprintf("SO-%d", now.Unix())
		}

		res := &SaleResult{Sale: sale, Lines: make([]SaleLineResult, 0, len(in.Lines))}
		priced := make([]pricing.Line, 0, len(in.Lines))
		for i, l := range in.Lines {
			line := &entity.SaleLine{
				ID:           uuid.Must(uuid.NewV7()).String(),
				SaleID:       sale.ID,
				PartID:       l.PartID,
				Position:     i + 1,
				Quantity:     l.Quantity,
				DiscountRule: l.Discount,
			}
			alloc, err := uc.allocator.Allocate(ctx, repos, parts[l.PartID], l.Quantity, sale.ID, line.ID, in.OperatorID)
			if err != nil {
				return err
			}

			pl := pricing.Line{Discount: l.Discount, Pieces: make([]pricing.Piece, 0, len(alloc.Allocations))}
			for _, a := range alloc.Allocations {
				pl.Pieces = append(pl.Pieces, pricing.Piece{Quantity: a.Quantity, UnitPrice: a.SellingPrice})
				cost, err := money.Mul(a.Quantity, a.CostPrice)
				if err != nil {
					return err
				}
				if line.CostTotal, err = money.Add(line.CostTotal, cost); err != nil {
					return err
				}
			}
			priced = append(priced, pl)

			movIDs := make([]string, len(alloc.Movements))
			for j, m := range alloc.Movements {
				movIDs[j] = m.ID
			}
			res.Lines = append(res.Lines, SaleLineResult{Line: line, Allocations: alloc.Allocations, MovementIDs: movIDs})
		}

		totals, err := pricing.ComputeTotals(priced, in.OrderDiscount, in.Tax)
		if err != nil {
			return err
		}
		sale.Subtotal = totals.Subtotal
		sale.OrderDiscountAmount = totals.OrderDiscountAmount
		sale.AfterDiscount = totals.AfterDiscount
		sale.TaxAmount = totals.TaxAmount
		sale.GrandTotal = totals.GrandTotal
		for i, lr := range res.Lines {
			lr.Line.Subtotal = totals.Lines[i].Subtotal
			lr.Line.DiscountAmount = totals.Lines[i].DiscountAmount
			lr.Line.Final = totals.Lines[i].Final
			if sale.CostTotal, err = money.Add(sale.CostTotal, lr.Line.CostTotal); err != nil {
				return err
			}
		}
		sale.GrossProfit = sale.AfterDiscount - sale.CostTotal

		// Las asignaciones ya están escritas; la FK hacia la venta se valida al commit.
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, lr := range res.Lines {
			if err := repos.Sales.CreateLine(ctx, lr.Line); err != nil {
				return err
			}
		}
		for _, id := range distinctSorted(partIDs) {
			if err := uc.alerts.Reconcile(ctx, repos, parts[id]); err != nil {
				return err
			}
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
