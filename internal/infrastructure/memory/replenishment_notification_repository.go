package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/internal/domain/repository"
)

var _ repository.ReplenishmentNotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo guarda notificaciones; el mutex hace atómico el "crear si no hay OPEN".
// stocks cumple el papel de la clave foránea: no se crean notificaciones de entradas inexistentes.
type NotificationRepo struct {
	mu     sync.Mutex
	stocks *StockEntryRepo
	byID   map[string]*entity.ReplenishmentNotification
	order  []string
	open   map[string]string // stock_id -> notification_id OPEN
}

// NewNotificationRepository construye el repositorio vacío, atado a las entradas de stocks.
func NewNotificationRepository(stocks *StockEntryRepo) *NotificationRepo {
	return &NotificationRepo{
		stocks: stocks,
		byID:   make(map[string]*entity.ReplenishmentNotification),
		open:   make(map[string]string),
	}
}

// CreateIfNoneOpen inserta n salvo que el stock ya tenga una OPEN; created indica si se insertó.
func (r *NotificationRepo) CreateIfNoneOpen(_ context.Context, n *entity.ReplenishmentNotification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.open[n.StockID]; ok {
		return false, nil
	}
	if !r.stocks.exists(n.StockID) {
		return false, domain.NotFound("insert replenishment notification", "entrada de stock "+n.StockID)
	}
	c := cloneNotification(n)
	r.byID[n.ID] = c
	r.order = append(r.order, n.ID)
	if c.IsOpen() {
		r.open[n.StockID] = n.ID
	}
	return true, nil
}

// GetByID obtiene una notificación; (nil, nil) si no existe.
func (r *NotificationRepo) GetByID(_ context.Context, id string) (*entity.ReplenishmentNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneNotification(n), nil
}

// GetOpenByStock obtiene la notificación OPEN del stock; (nil, nil) si no hay.
func (r *NotificationRepo) GetOpenByStock(_ context.Context, stockID string) (*entity.ReplenishmentNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.open[stockID]
	if !ok {
		return nil, nil
	}
	return cloneNotification(r.byID[id]), nil
}

// ListByStock todas las notificaciones del stock, más reciente primero.
func (r *NotificationRepo) ListByStock(_ context.Context, stockID string) ([]*entity.ReplenishmentNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.ReplenishmentNotification{}
	for i := len(r.order) - 1; i >= 0; i-- {
		n := r.byID[r.order[i]]
		if n.StockID == stockID {
			out = append(out, cloneNotification(n))
		}
	}
	return out, nil
}

// Dismiss marca DISMISSED; si ya lo estaba conserva la fecha original.
func (r *NotificationRepo) Dismiss(_ context.Context, id string, at time.Time) (*entity.ReplenishmentNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	n.Dismiss(at)
	if r.open[n.StockID] == id {
		delete(r.open, n.StockID)
	}
	return cloneNotification(n), nil
}

// DeleteByStock elimina todas las notificaciones del stock.
func (r *NotificationRepo) DeleteByStock(_ context.Context, stockID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	kept := r.order[:0]
	for _, id := range r.order {
		if r.byID[id].StockID == stockID {
			delete(r.byID, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	delete(r.open, stockID)
	return removed, nil
}

func cloneNotification(n *entity.ReplenishmentNotification) *entity.ReplenishmentNotification {
	c := *n
	if n.DismissedAt != nil {
		t := *n.DismissedAt
		c.DismissedAt = &t
	}
	return &c
}
