package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleDTO regla de ajuste en JSON: {"type": "percent", "value": "12.5"}.
// type vacío o "none" significa sin ajuste.
type RuleDTO struct {
	Type  string          `json:"type" validate:"omitempty,oneof=none percent fixed"`
	Value decimal.Decimal `json:"value"`
}

// ── Compras ──────────────────────────────────────────────────────────────────

// ReceiptLineRequest línea de recepción: genera un lote.
type ReceiptLineRequest struct {
	PartID   string  `json:"part_id" validate:"required,uuid"`
	Quantity int64   `json:"quantity" validate:"gt=0,lte=1000000"`
	UnitCost int64   `json:"unit_cost" validate:"gte=0,lte=1000000000000"`
	Margin   RuleDTO `json:"margin"` // obligatorio: percent o fixed
	Promo    RuleDTO `json:"promo"`
	Discount RuleDTO `json:"discount"`
}

// ReceivePurchaseRequest body para POST /api/purchases/receipts.
type ReceivePurchaseRequest struct {
	SupplierID    string               `json:"supplier_id" validate:"required,uuid"`
	Reference     string               `json:"reference,omitempty" validate:"max=60"`
	OrderDiscount RuleDTO              `json:"order_discount"`
	Tax           RuleDTO              `json:"tax"`
	Lines         []ReceiptLineRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

// BatchPriceDTO precios congelados del lote.
type BatchPriceDTO struct {
	MarginAmount        int64 `json:"margin_amount"`
	NormalPrice         int64 `json:"normal_price"`
	PromoDiscountAmount int64 `json:"promo_discount_amount"`
	FinalPrice          int64 `json:"final_price"`
}

// ReceiptLineResponse resultado por línea recibida.
type ReceiptLineResponse struct {
	PartID     string        `json:"part_id"`
	BatchID    string        `json:"batch_id"`
	MovementID string        `json:"movement_id"`
	PartStock  int64         `json:"part_stock"`
	Price      BatchPriceDTO `json:"price"`
}

// TotalsDTO totales de documento en unidades mínimas.
type TotalsDTO struct {
	Subtotal            int64 `json:"subtotal"`
	OrderDiscountAmount int64 `json:"order_discount_amount"`
	AfterDiscount       int64 `json:"after_discount"`
	TaxAmount           int64 `json:"tax_amount"`
	GrandTotal          int64 `json:"grand_total"`
}

// ReceivePurchaseResponse respuesta de la recepción.
type ReceivePurchaseResponse struct {
	PurchaseOrderID string                `json:"purchase_order_id"`
	Lines           []ReceiptLineResponse `json:"lines"`
	Totals          TotalsDTO             `json:"totals"`
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// SaleLineRequest línea de venta.
type SaleLineRequest struct {
	PartID   string  `json:"part_id" validate:"required,uuid"`
	Quantity int64   `json:"quantity" validate:"gt=0,lte=1000000"`
	Discount RuleDTO `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Reference     string            `json:"reference,omitempty" validate:"max=60"`
	CustomerID    string            `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	OrderDiscount RuleDTO           `json:"order_discount"`
	Tax           RuleDTO           `json:"tax"`
	Lines         []SaleLineRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

// AllocationDTO unidades de una línea tomadas de un lote.
type AllocationDTO struct {
	BatchID      string `json:"batch_id"`
	Quantity     int64  `json:"quantity"`
	CostPrice    int64  `json:"cost_price"`
	SellingPrice int64  `json:"selling_price"`
}

// SaleLineResponse línea vendida.
type SaleLineResponse struct {
	ID             string          `json:"id"`
	Position       int             `json:"position"`
	PartID         string          `json:"part_id"`
	Quantity       int64           `json:"quantity"`
	Discount       RuleDTO         `json:"discount"`
	Subtotal       int64           `json:"subtotal"`
	DiscountAmount int64           `json:"discount_amount"`
	Final          int64           `json:"final"`
	CostTotal      int64           `json:"cost_total"`
	Allocations    []AllocationDTO `json:"allocations"`
	MovementIDs    []string        `json:"movement_ids,omitempty"`
}

// SaleResponse venta con líneas y totales.
type SaleResponse struct {
	ID            string             `json:"id"`
	Reference     string             `json:"reference"`
	CustomerID    string             `json:"customer_id,omitempty"`
	OrderDiscount RuleDTO            `json:"order_discount"`
	Tax           RuleDTO            `json:"tax"`
	Totals        TotalsDTO          `json:"totals"`
	CostTotal     int64              `json:"cost_total"`
	GrossProfit   int64              `json:"gross_profit"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	Lines         []SaleLineResponse `json:"lines"`
}

// ── Stock ────────────────────────────────────────────────────────────────────

// AdjustStockRequest body para POST /api/stock/adjustments.
type AdjustStockRequest struct {
	PartID string `json:"part_id" validate:"required,uuid"`
	Delta  int64  `json:"delta" validate:"ne=0,min=-1000000,max=1000000"`
	Reason string `json:"reason" validate:"required,max=255"`
}

// MovementDTO asiento del kardex.
type MovementDTO struct {
	ID          string    `json:"id"`
	PartID      string    `json:"part_id"`
	Direction   string    `json:"direction"`
	Quantity    int64     `json:"quantity"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	UnitPrice   *int64    `json:"unit_price,omitempty"`
	SupplierID  string    `json:"supplier_id,omitempty"`
	BatchID     string    `json:"batch_id,omitempty"`
	SourceKind  string    `json:"source_kind"`
	SourceID    string    `json:"source_id"`
	Reason      string    `json:"reason,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdjustStockResponse respuesta del ajuste.
type AdjustStockResponse struct {
	AdjustmentID string        `json:"adjustment_id"`
	BatchID      string        `json:"batch_id,omitempty"`
	PartStock    int64         `json:"part_stock"`
	Movements    []MovementDTO `json:"movements"`
}

// LowStockAlertDTO alerta con datos del repuesto.
type LowStockAlertDTO struct {
	PartID       string    `json:"part_id"`
	PartName     string    `json:"part_name,omitempty"`
	PartNumber   string    `json:"part_number,omitempty"`
	RackLocation string    `json:"rack_location,omitempty"`
	CurrentStock int64     `json:"current_stock"`
	MinimalStock int64     `json:"minimal_stock"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AlertListQuery query de GET /api/stock/alerts.
type AlertListQuery struct {
	Sort  string `query:"sort" validate:"omitempty,oneof=part_name part_number rack_location current_stock minimal_stock"`
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// BatchDTO lote de compra.
type BatchDTO struct {
	ID                string        `json:"id"`
	PurchaseOrderID   string        `json:"purchase_order_id,omitempty"`
	QuantityReceived  int64         `json:"quantity_received"`
	QuantityRemaining int64         `json:"quantity_remaining"`
	UnitCost          int64         `json:"unit_cost"`
	Margin            RuleDTO       `json:"margin"`
	Promo             RuleDTO       `json:"promo"`
	Price             BatchPriceDTO `json:"price"`
	ReceivedAt        time.Time     `json:"received_at"`
}

// BatchesResponse lotes y valorización al costo.
type BatchesResponse struct {
	PartID          string          `json:"part_id"`
	Quantity        int64           `json:"quantity"`
	TotalCost       int64           `json:"total_cost"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	Batches         []BatchDTO      `json:"batches"`
}

// ReconciliationDTO resultado de conciliación de un repuesto.
type ReconciliationDTO struct {
	PartID         string   `json:"part_id"`
	OK             bool     `json:"ok"`
	PartStock      int64    `json:"part_stock"`
	BatchRemaining int64    `json:"batch_remaining"`
	LedgerStock    int64    `json:"ledger_stock"`
	ReplayStock    int64    `json:"replay_stock"`
	Movements      int      `json:"movements"`
	Batches        int      `json:"batches"`
	Issues         []string `json:"issues,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un repuesto bajo mínimo.
type ReplenishmentSuggestionDTO struct {
	PartID        string          `json:"part_id"`
	PartName      string          `json:"part_name"`
	PartNumber    string          `json:"part_number"`
	RackLocation  string          `json:"rack_location,omitempty"`
	CurrentStock  int64           `json:"current_stock"`
	MinimalStock  int64           `json:"minimal_stock"`
	IdealStock    int64           `json:"ideal_stock"`    // ceil(mínimo * 1.5)
	SuggestedQty  int64           `json:"suggested_qty"`  // ideal - actual
	LastUnitCost  int64           `json:"last_unit_cost"` // costo del último lote
	EstimatedCost int64           `json:"estimated_cost"`
	Coverage      decimal.Decimal `json:"coverage"` // actual / mínimo
	Priority      int             `json:"priority"` // 1 = más urgente
}

// MovementListResponse página del kardex de un repuesto.
type MovementListResponse struct {
	PartID    string        `json:"part_id"`
	Page      PageResponse  `json:"page"`
	Movements []MovementDTO `json:"movements"`
}
