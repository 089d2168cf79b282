package entity

import "time"

// LowStockAlert alerta única por repuesto cuando el stock cae al mínimo o por debajo.
type LowStockAlert struct {
	PartID       string
	CurrentStock int64
	MinimalStock int64
	IsRead       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStockAlertView alerta con los datos del repuesto para listados.
type LowStockAlertView struct {
	LowStockAlert
	PartName     string
	PartNumber   string
	RackLocation string
}
