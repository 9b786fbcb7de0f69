package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-service/internal/domain/entity"
)

// ReplenishmentNotificationRepository define el puerto de persistencia de notificaciones de reposición.
// El almacenamiento garantiza como máximo una notificación OPEN por stock_id.
type ReplenishmentNotificationRepository interface {
	// CreateIfNoneOpen inserta n solo si no existe otra OPEN para n.StockID.
	// created es false cuando ya había una abierta (n no se persiste).
	CreateIfNoneOpen(ctx context.Context, n *entity.ReplenishmentNotification) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.ReplenishmentNotification, error)
	GetOpenByStock(ctx context.Context, stockID string) (*entity.ReplenishmentNotification, error)
	// ListByStock devuelve todas las notificaciones del stock (cualquier estado), más reciente primero.
	ListByStock(ctx context.Context, stockID string) ([]*entity.ReplenishmentNotification, error)
	// Dismiss marca la notificación como DISMISSED y devuelve su estado final; domain.ErrNotFound si no existe.
	Dismiss(ctx context.Context, id string, at time.Time) (*entity.ReplenishmentNotification, error)
	DeleteByStock(ctx context.Context, stockID string) (int, error)
}
