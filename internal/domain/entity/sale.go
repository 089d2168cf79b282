package entity

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/money"
)

// Sale cabecera de venta de repuestos.
type Sale struct {
	ID                  string
	Reference           string
	CustomerID          string // opcional, informativo
	Subtotal            int64
	OrderDiscountRule   money.Rule
	OrderDiscountAmount int64
	AfterDiscount       int64
	TaxRule             money.Rule
	TaxAmount           int64
	GrandTotal          int64
	CostTotal           int64
	GrossProfit         int64 // AfterDiscount - CostTotal
	CreatedBy           string
	CreatedAt           time.Time
}

// SaleLine línea de venta. Quantity es el único campo de cantidad.
type SaleLine struct {
	ID             string
	SaleID         string
	PartID         string
	Position       int
	Quantity       int64
	DiscountRule   money.Rule
	Subtotal       int64
	DiscountAmount int64
	Final          int64
	CostTotal      int64
}

// SaleLineAllocation cuánto de una línea salió de un lote, con costo y precio copiados
// del lote en el momento de la asignación. Inmutable.
type SaleLineAllocation struct {
	ID           string
	SaleLineID   string
	BatchID      string
	Quantity     int64
	CostPrice    int64
	SellingPrice int64
	CreatedAt    time.Time
}
