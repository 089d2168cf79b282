package entity

import (
	"fmt"
	"time"
)

// Direction sentido del movimiento.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// SourceKind origen de un movimiento de kardex.
type SourceKind string

const (
	SourcePurchase         SourceKind = "purchase"
	SourceSale             SourceKind = "sale"
	SourceManualAdjustment SourceKind = "manual_adjustment"
)

// SourceRef referencia tipada al documento que causó el movimiento.
type SourceRef struct {
	Kind SourceKind
	ID   string
}

// PurchaseSource, SaleSource y AdjustmentSource construyen referencias válidas.
func PurchaseSource(id string) SourceRef   { return SourceRef{Kind: SourcePurchase, ID: id} }
func SaleSource(id string) SourceRef       { return SourceRef{Kind: SourceSale, ID: id} }
func AdjustmentSource(id string) SourceRef { return SourceRef{Kind: SourceManualAdjustment, ID: id} }

// Validate verifica que la etiqueta sea conocida y que haya ID.
func (s SourceRef) Validate() error {
	switch s.Kind {
	case SourcePurchase, SourceSale, SourceManualAdjustment:
	default:
		return fmt.Errorf("origen de movimiento desconocido %q", s.Kind)
	}
	if s.ID == "" {
		return fmt.Errorf("origen %s sin id", s.Kind)
	}
	return nil
}

// StockMovement asiento del kardex. Solo se agrega, nunca se edita ni se borra.
type StockMovement struct {
	ID          string
	PartID      string
	Direction   Direction
	Quantity    int64 // siempre positivo; el sentido lo da Direction
	StockBefore int64
	StockAfter  int64
	UnitPrice   *int64
	SupplierID  string
	BatchID     string // lote creado (entrada) o consumido (salida); vacío si no aplica
	Source      SourceRef
	Reason      string
	CreatedBy   string
	CreatedAt   time.Time
	Sequence    int64 // asignado por el almacenamiento; ordena asientos con igual CreatedAt
}

// Delta variación con signo que aplica el movimiento.
func (m *StockMovement) Delta() int64 {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}
