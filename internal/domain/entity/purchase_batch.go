package entity

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/money"
)

// PurchaseBatch lote de compra recibido: una cantidad de un repuesto a un costo unitario,
// con precios de venta congelados al momento de la recepción. Nunca se borra; se agota.
type PurchaseBatch struct {
	ID                  string
	PartID              string
	PurchaseOrderID     string // vacío en lotes abiertos por ajuste manual
	QuantityReceived    int64
	QuantityRemaining   int64
	UnitCost            int64
	MarginRule          money.Rule
	PromoRule           money.Rule
	NormalPrice         int64
	PromoDiscountAmount int64
	FinalPrice          int64
	ReceivedAt          time.Time // define el orden FIFO
	CreatedBy           string
}

// Exhausted true si el lote ya no tiene unidades.
func (b *PurchaseBatch) Exhausted() bool { return b.QuantityRemaining == 0 }
