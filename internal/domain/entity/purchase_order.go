package entity

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/money"
)

// PurchaseOrder cabecera de una compra recibida; cada línea es un PurchaseBatch.
type PurchaseOrder struct {
	ID                  string
	Reference           string
	SupplierID          string
	Subtotal            int64
	OrderDiscountRule   money.Rule
	OrderDiscountAmount int64
	AfterDiscount       int64
	TaxRule             money.Rule
	TaxAmount           int64
	GrandTotal          int64
	ReceivedAt          time.Time
	CreatedBy           string
}
