package entity

import "time"

// StockEntry representa la cantidad disponible de una variante (color/talla) de un producto.
// Quantity y ReorderThreshold nunca son negativos.
type StockEntry struct {
	ID               string
	ProductID        string // referencia externa al catálogo de productos
	Color            string
	Size             string
	Quantity         int
	ReorderThreshold int // nivel en o bajo el cual se requiere reposición
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NeedsReplenishment indica si la cantidad está en o por debajo del umbral de reorden.
func (s *StockEntry) NeedsReplenishment() bool {
	return s.Quantity <= s.ReorderThreshold
}

// ReplenishmentState deriva el estado de reposición a partir de la entrada y de si
// existe una notificación OPEN para ella.
func (s *StockEntry) ReplenishmentState(hasOpenNotification bool) ReplenishmentState {
	if !s.NeedsReplenishment() {
		return StateAboveThreshold
	}
	if hasOpenNotification {
		return StateBelowThresholdNotified
	}
	return StateBelowThresholdNoNotice
}

// ReplenishmentState estado de reposición de una entrada de stock.
type ReplenishmentState string

const (
	StateAboveThreshold         ReplenishmentState = "ABOVE_THRESHOLD"
	StateBelowThresholdNoNotice ReplenishmentState = "BELOW_THRESHOLD_NO_NOTICE"
	StateBelowThresholdNotified ReplenishmentState = "BELOW_THRESHOLD_NOTIFIED"
)
