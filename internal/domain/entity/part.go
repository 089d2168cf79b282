package entity

import "time"

// Part representa un repuesto del catálogo del taller.
// Stock es un agregado en caché: solo lo modifica el kardex y debe coincidir con
// la suma de QuantityRemaining de sus lotes.
type Part struct {
	ID           string
	Name         string
	PartNumber   string // único
	Barcode      string // opcional
	CategoryID   string
	SupplierID   string // último proveedor, informativo
	Stock        int64
	MinimalStock int64
	RackLocation string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
