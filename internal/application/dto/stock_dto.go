package dto

import (
	"time"

	"github.com/jhoicas/stock-service/internal/domain/entity"
)

// CreateStockRequest body para POST /api/stocks: {productId, color, size, quantity, reorderThreshold}.
// Se aceptan también product_id y reorder_threshold. Quantity y ReorderThreshold son punteros
// para distinguir "ausente" de 0.
type CreateStockRequest struct {
	ProductID        FlexibleID `json:"productId"`
	Color            string     `json:"color"`
	Size             string     `json:"size"`
	Quantity         *int       `json:"quantity"`
	ReorderThreshold *int       `json:"reorderThreshold"`

	ProductIDSnake        FlexibleID `json:"product_id"`
	ReorderThresholdSnake *int       `json:"reorder_threshold"`
}

// Product devuelve productId o, si falta, product_id.
func (r CreateStockRequest) Product() string {
	if r.ProductID != "" {
		return string(r.ProductID)
	}
	return string(r.ProductIDSnake)
}

// Threshold devuelve reorderThreshold o, si falta, reorder_threshold.
func (r CreateStockRequest) Threshold() *int {
	if r.ReorderThreshold != nil {
		return r.ReorderThreshold
	}
	return r.ReorderThresholdSnake
}

// UpdateStockRequest body para PUT /api/stocks: {stockId, quantity} (o stock_id).
type UpdateStockRequest struct {
	StockID      FlexibleID `json:"stockId"`
	StockIDSnake FlexibleID `json:"stock_id"`
	Quantity     *int       `json:"quantity"`
}

// Stock devuelve stockId o, si falta, stock_id.
func (r UpdateStockRequest) Stock() string {
	if r.StockID != "" {
		return string(r.StockID)
	}
	return string(r.StockIDSnake)
}

// AdjustStockRequest body para POST /api/stocks/:stockId/adjustments.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// StockEntryResponse salida de una entrada de stock.
type StockEntryResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	Color            string    `json:"color"`
	Size             string    `json:"size"`
	Quantity         int       `json:"quantity"`
	ReorderThreshold int       `json:"reorder_threshold"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StockEntryListResponse lista paginada de entradas.
type StockEntryListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// NotificationResponse salida de una notificación de reposición.
type NotificationResponse struct {
	ID               string     `json:"id"`
	StockID          string     `json:"stock_id"`
	Status           string     `json:"status"`
	Quantity         int        `json:"quantity"`
	ReorderThreshold int        `json:"reorder_threshold"`
	CreatedAt        time.Time  `json:"created_at"`
	DismissedAt      *time.Time `json:"dismissed_at,omitempty"`
}

// DeleteNotificationResponse respuesta de DELETE /api/stocks/notifications/:notificationId.
type DeleteNotificationResponse struct {
	Message string               `json:"message"`
	Result  NotificationResponse `json:"result"`
}

// ReplenishmentStateResponse estado de reposición de una entrada.
type ReplenishmentStateResponse struct {
	StockID string `json:"stock_id"`
	State   string `json:"state"`
}

// ToStockEntryResponse mapea la entidad a su DTO.
func ToStockEntryResponse(e *entity.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:               e.ID,
		ProductID:        e.ProductID,
		Color:            e.Color,
		Size:             e.Size,
		Quantity:         e.Quantity,
		ReorderThreshold: e.ReorderThreshold,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ToStockEntryResponses mapea una lista; nunca devuelve nil.
func ToStockEntryResponses(list []*entity.StockEntry) []StockEntryResponse {
	out := make([]StockEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToStockEntryResponse(e))
	}
	return out
}

// ToNotificationResponse mapea la entidad a su DTO.
func ToNotificationResponse(n *entity.ReplenishmentNotification) NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		StockID:          n.StockID,
		Status:           string(n.Status),
		Quantity:         n.Quantity,
		ReorderThreshold: n.ReorderThreshold,
		CreatedAt:        n.CreatedAt,
		DismissedAt:      n.DismissedAt,
	}
}

// ToNotificationResponses mapea una lista; nunca devuelve nil.
func ToNotificationResponses(list []*entity.ReplenishmentNotification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, ToNotificationResponse(n))
	}
	return out
}
