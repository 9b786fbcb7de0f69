package entity

import "time"

// NotificationStatus ciclo de vida de una notificación de reposición.
type NotificationStatus string

const (
	NotificationOpen      NotificationStatus = "OPEN"
	NotificationDismissed NotificationStatus = "DISMISSED"
)

// ReplenishmentNotification señala que una entrada de stock necesita reposición.
// Quantity y ReorderThreshold son la foto de la entrada al momento de crearla.
type ReplenishmentNotification struct {
	ID               string
	StockID          string
	Status           NotificationStatus
	Quantity         int
	ReorderThreshold int
	CreatedAt        time.Time
	DismissedAt      *time.Time
}

// IsOpen indica si la notificación sigue abierta.
func (n *ReplenishmentNotification) IsOpen() bool {
	return n.Status == NotificationOpen
}

// Dismiss marca la notificación como descartada. No hace nada si ya lo estaba.
func (n *ReplenishmentNotification) Dismiss(at time.Time) {
	if n.Status == NotificationDismissed {
		return
	}
	n.Status = NotificationDismissed
	n.DismissedAt = &at
}
