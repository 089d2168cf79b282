package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/money"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
)

// ruleFromDTO convierte la regla del request; el error envuelve domain.ErrInvalidRule.
func ruleFromDTO(field string, r dto.RuleDTO) (money.Rule, error) {
	rule, err := money.ParseRule(r.Type, r.Value)
	if err != nil {
		return money.Rule{}, fmt.Errorf("%s: %w", field, err)
	}
	return rule, nil
}

func ruleToDTO(r money.Rule) dto.RuleDTO {
	return dto.RuleDTO{Type: string(r.Type()), Value: r.Value()}
}

// ReceiveFromRequest adapta el request HTTP al caso de uso Receive.
func (uc *ReceivePurchaseUseCase) ReceiveFromRequest(ctx context.Context, operatorID string, in dto.ReceivePurchaseRequest) (*dto.ReceivePurchaseResponse, error) {
	input := ReceivePurchaseInput{
		SupplierID: in.SupplierID,
		Reference:  in.Reference,
		OperatorID: operatorID,
		Lines:      make([]ReceiptLineInput, 0, len(in.Lines)),
	}
	var err error
	if input.OrderDiscount, err = ruleFromDTO("order_discount", in.OrderDiscount); err != nil {
		return nil, err
	}
	if input.Tax, err = ruleFromDTO("tax", in.Tax); err != nil {
		return nil, err
	}
	for i, l := range in.Lines {
		line := ReceiptLineInput{PartID: l.PartID, Quantity: l.Quantity, UnitCost: l.UnitCost}
		if line.Margin, err = ruleFromDTO(fmt.Sprintf("lines[%d].margin", i), l.Margin); err != nil {
			return nil, err
		}
		if line.Promo, err = ruleFromDTO(fmt.Sprintf("lines[%d].promo", i), l.Promo); err != nil {
			return nil, err
		}
		if line.Discount, err = ruleFromDTO(fmt.Sprintf("lines[%d].discount", i), l.Discount); err != nil {
			return nil, err
		}
		input.Lines = append(input.Lines, line)
	}

	res, err := uc.Receive(ctx, input)
	if err != nil {
		return nil, err
	}
	out := &dto.ReceivePurchaseResponse{
		PurchaseOrderID: res.PurchaseOrderID,
		Totals:          totalsToDTO(res.Totals),
		Lines:           make([]dto.ReceiptLineResponse, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, dto.ReceiptLineResponse{
			PartID:     l.PartID,
			BatchID:    l.BatchID,
			MovementID: l.MovementID,
			PartStock:  l.PartStock,
			Price:      batchPriceToDTO(l.Price),
		})
	}
	return out, nil
}

// CreateFromRequest adapta el request HTTP al caso de uso Create.
func (uc *CreateSaleUseCase) CreateFromRequest(ctx context.Context, operatorID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	input := CreateSaleInput{
		Reference:  in.Reference,
		CustomerID: in.CustomerID,
		OperatorID: operatorID,
		Lines:      make([]SaleLineInput, 0, len(in.Lines)),
	}
	var err error
	if input.OrderDiscount, err = ruleFromDTO("order_discount", in.OrderDiscount); err != nil {
		return nil, err
	}
	if input.Tax, err = ruleFromDTO("tax", in.Tax); err != nil {
		return nil, err
	}
	for i, l := range in.Lines {
		line := SaleLineInput{PartID: l.PartID, Quantity: l.Quantity}
		if line.Discount, err = ruleFromDTO(fmt.Sprintf("lines[%d].discount", i), l.Discount); err != nil {
			return nil, err
		}
		input.Lines = append(input.Lines, line)
	}

	res, err := uc.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return SaleToDTO(res), nil
}

// AdjustFromRequest adapta el request HTTP al caso de uso Adjust.
func (uc *AdjustStockUseCase) AdjustFromRequest(ctx context.Context, operatorID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	res, err := uc.Adjust(ctx, AdjustStockInput{
		PartID:     in.PartID,
		Delta:      in.Delta,
		Reason:     in.Reason,
		OperatorID: operatorID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustStockResponse{
		AdjustmentID: res.AdjustmentID,
		BatchID:      res.BatchID,
		PartStock:    res.PartStock,
		Movements:    MovementsToDTO(res.Movements),
	}, nil
}

// ── Mapeos a DTO ─────────────────────────────────────────────────────────────

func totalsToDTO(t pricing.Totals) dto.TotalsDTO {
	return dto.TotalsDTO{
		Subtotal:            t.Subtotal,
		OrderDiscountAmount: t.OrderDiscountAmount,
		AfterDiscount:       t.AfterDiscount,
		TaxAmount:           t.TaxAmount,
		GrandTotal:          t.GrandTotal,
	}
}

func batchPriceToDTO(p pricing.BatchPrice) dto.BatchPriceDTO {
	return dto.BatchPriceDTO{
		MarginAmount:        p.MarginAmount,
		NormalPrice:         p.NormalPrice,
		PromoDiscountAmount: p.PromoDiscountAmount,
		FinalPrice:          p.FinalPrice,
	}
}

// SaleToDTO venta completa para respuesta HTTP.
func SaleToDTO(res *SaleResult) *dto.SaleResponse {
	s := res.Sale
	out := &dto.SaleResponse{
		ID:            s.ID,
		Reference:     s.Reference,
		CustomerID:    s.CustomerID,
		OrderDiscount: ruleToDTO(s.OrderDiscountRule),
		Tax:           ruleToDTO(s.TaxRule),
		Totals: dto.TotalsDTO{
			Subtotal:            s.Subtotal,
			OrderDiscountAmount: s.OrderDiscountAmount,
			AfterDiscount:       s.AfterDiscount,
			TaxAmount:           s.TaxAmount,
			GrandTotal:          s.GrandTotal,
		},
		CostTotal:   s.CostTotal,
		GrossProfit: s.GrossProfit,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		Lines:       make([]dto.SaleLineResponse, 0, len(res.Lines)),
	}
	for _, lr := range res.Lines {
		l := lr.Line
		line := dto.SaleLineResponse{
			ID:             l.ID,
			Position:       l.Position,
			PartID:         l.PartID,
			Quantity:       l.Quantity,
			Discount:       ruleToDTO(l.DiscountRule),
			Subtotal:       l.Subtotal,
			DiscountAmount: l.DiscountAmount,
			Final:          l.Final,
			CostTotal:      l.CostTotal,
			MovementIDs:    lr.MovementIDs,
			Allocations:    make([]dto.AllocationDTO, 0, len(lr.Allocations)),
		}
		for _, a := range lr.Allocations {
			line.Allocations = append(line.Allocations, dto.AllocationDTO{
				BatchID:      a.BatchID,
				Quantity:     a.Quantity,
				CostPrice:    a.CostPrice,
				SellingPrice: a.SellingPrice,
			})
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

// MovementsToDTO asientos del kardex para respuesta HTTP.
func MovementsToDTO(movs []*entity.StockMovement) []dto.MovementDTO {
	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementDTO{
			ID:          m.ID,
			PartID:      m.PartID,
			Direction:   string(m.Direction),
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			UnitPrice:   m.UnitPrice,
			SupplierID:  m.SupplierID,
			BatchID:     m.BatchID,
			SourceKind:  string(m.Source.Kind),
			SourceID:    m.Source.ID,
			Reason:      m.Reason,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}

// AlertToDTO alerta sin datos del repuesto.
func AlertToDTO(a *entity.LowStockAlert) dto.LowStockAlertDTO {
	return dto.LowStockAlertDTO{
		PartID:       a.PartID,
		CurrentStock: a.CurrentStock,
		MinimalStock: a.MinimalStock,
		IsRead:       a.IsRead,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AlertViewsToDTO listado de alertas.
func AlertViewsToDTO(views []*entity.LowStockAlertView) []dto.LowStockAlertDTO {
	out := make([]dto.LowStockAlertDTO, 0, len(views))
	for _, v := range views {
		d := AlertToDTO(&v.LowStockAlert)
		d.PartName = v.PartName
		d.PartNumber = v.PartNumber
		d.RackLocation = v.RackLocation
		out = append(out, d)
	}
	return out
}

// BatchesToDTO lotes con valorización.
func BatchesToDTO(partID string, v *BatchesView) *dto.BatchesResponse {
	out := &dto.BatchesResponse{
		PartID:          partID,
		Quantity:        v.Valuation.Quantity,
		TotalCost:       v.Valuation.TotalCost,
		AverageUnitCost: v.Valuation.AverageUnitCost,
		Batches:         make([]dto.BatchDTO, 0, len(v.Batches)),
	}
	for _, b := range v.Batches {
		out.Batches = append(out.Batches, dto.BatchDTO{
			ID:                b.ID,
			PurchaseOrderID:   b.PurchaseOrderID,
			QuantityReceived:  b.QuantityReceived,
			QuantityRemaining: b.QuantityRemaining,
			UnitCost:          b.UnitCost,
			Margin:            ruleToDTO(b.MarginRule),
			Promo:             ruleToDTO(b.PromoRule),
			Price: dto.BatchPriceDTO{
				MarginAmount:        b.NormalPrice - b.UnitCost,
				NormalPrice:         b.NormalPrice,
				PromoDiscountAmount: b.PromoDiscountAmount,
				FinalPrice:          b.FinalPrice,
			},
			ReceivedAt: b.ReceivedAt,
		})
	}
	return out
}

// ReportToDTO resultado de conciliación.
func ReportToDTO(r *ReconciliationReport) dto.ReconciliationDTO {
	return dto.ReconciliationDTO{
		PartID:         r.PartID,
		OK:             r.OK(),
		PartStock:      r.PartStock,
		BatchRemaining: r.BatchRemaining,
		LedgerStock:    r.LedgerStock,
		ReplayStock:    r.ReplayStock,
		Movements:      r.Movements,
		Batches:        r.Batches,
		Issues:         r.Issues,
	}
}

// SuggestionsToDTO lista de reposición.
func SuggestionsToDTO(list []ReplenishmentSuggestion) []dto.ReplenishmentSuggestionDTO {
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			PartID:        s.PartID,
			PartName:      s.PartName,
			PartNumber:    s.PartNumber,
			RackLocation:  s.RackLocation,
			CurrentStock:  s.CurrentStock,
			MinimalStock:  s.MinimalStock,
			IdealStock:    s.IdealStock,
			SuggestedQty:  s.SuggestedQty,
			LastUnitCost:  s.LastUnitCost,
			EstimatedCost: s.EstimatedCost,
			Coverage:      s.Coverage,
			Priority:      s.Priority,
		})
	}
	return out
}
