package inventory

// AlertAction qué hacer con la alerta de un repuesto.
type AlertAction int

const (
	AlertClear  AlertAction = iota // borrar la alerta si existe
	AlertUpsert                    // crear o refrescar la alerta
)

// DecideAlert: hay alerta cuando stock <= mínimo y el mínimo es mayor que cero.
func DecideAlert(currentStock, minimalStock int64) AlertAction {
	if minimalStock > 0 && currentStock <= minimalStock {
		return AlertUpsert
	}
	return AlertClear
}
