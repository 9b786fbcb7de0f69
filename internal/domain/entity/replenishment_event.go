package entity

import "time"

// EventReplenishmentRequested tipo del evento publicado al crear una notificación.
const EventReplenishmentRequested = "ReplenishmentRequested"

// ReplenishmentRequested evento de integración emitido cuando se abre una notificación.
type ReplenishmentRequested struct {
	EventType        string    `json:"event_type"`
	NotificationID   string    `json:"notification_id"`
	StockID          string    `json:"stock_id"`
	ProductID        string    `json:"product_id"`
	Color            string    `json:"color"`
	Size             string    `json:"size"`
	Quantity         int       `json:"quantity"`
	ReorderThreshold int       `json:"reorder_threshold"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// NewReplenishmentRequested construye el evento a partir de la entrada y la notificación creada.
func NewReplenishmentRequested(stock *StockEntry, n *ReplenishmentNotification) ReplenishmentRequested {
	return ReplenishmentRequested{
		EventType:        EventReplenishmentRequested,
		NotificationID:   n.ID,
		StockID:          stock.ID,
		ProductID:        stock.ProductID,
		Color:            stock.Color,
		Size:             stock.Size,
		Quantity:         n.Quantity,
		ReorderThreshold: n.ReorderThreshold,
		OccurredAt:       n.CreatedAt,
	}
}
