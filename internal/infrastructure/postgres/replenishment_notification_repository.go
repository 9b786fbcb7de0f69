package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-service/internal/domain"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/internal/domain/repository"
)

var _ repository.ReplenishmentNotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, stock_id, status, quantity, reorder_threshold, created_at, dismissed_at`

// NotificationRepo implementación de ReplenishmentNotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Acepta pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// CreateIfNoneOpen se apoya en el índice único parcial (stock_id) WHERE status = 'OPEN':
// si ya hay una abierta el INSERT no afecta filas y created es false.
func (r *NotificationRepo) CreateIfNoneOpen(ctx context.Context, n *entity.ReplenishmentNotification) (bool, error) {
	query := `
		INSERT INTO replenishment_notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stock_id) WHERE status = 'OPEN' DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		n.ID, n.StockID, string(n.Status), n.Quantity, n.ReorderThreshold, n.CreatedAt, n.DismissedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.NotFound("insert replenishment notification", "entrada de stock "+n.StockID)
		}
		return false, fmt.Errorf("insert replenishment notification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene una notificación; (nil, nil) si no existe.
func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*entity.ReplenishmentNotification, error) {
	query := `SELECT ` + notificationColumns + ` FROM replenishment_notifications WHERE id = $1`
	n, err := scanNotification(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get replenishment notification: %w", err)
	}
	return n, nil
}

// GetOpenByStock obtiene la notificación OPEN del stock; (nil, nil) si no hay.
func (r *NotificationRepo) GetOpenByStock(ctx context.Context, stockID string) (*entity.ReplenishmentNotification, error) {
	query := `
		SELECT ` + notificationColumns + ` FROM replenishment_notifications
		WHERE stock_id = $1 AND status = 'OPEN'`
	n, err := scanNotification(r.q.QueryRow(ctx, query, stockID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open replenishment notification: %w", err)
	}
	return n, nil
}

// ListByStock todas las notificaciones del stock, más reciente primero.
func (r *NotificationRepo) ListByStock(ctx context.Context, stockID string) ([]*entity.ReplenishmentNotification, error) {
	query := `
		SELECT ` + notificationColumns + ` FROM replenishment_notifications
		WHERE stock_id = $1
		ORDER BY seq DESC`
	rows, err := r.q.Query(ctx, query, stockID)
	if err != nil {
		return nil, fmt.Errorf("list replenishment notifications: %w", err)
	}
	defer rows.Close()
	list := []*entity.ReplenishmentNotification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan replenishment notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// Dismiss marca DISMISSED; si ya lo estaba conserva la fecha original.
func (r *NotificationRepo) Dismiss(ctx context.Context, id string, at time.Time) (*entity.ReplenishmentNotification, error) {
	query := `
		UPDATE replenishment_notifications
		SET status = 'DISMISSED', dismissed_at = COALESCE(dismissed_at, $2)
		WHERE id = $1
		RETURNING ` + notificationColumns
	n, err := scanNotification(r.q.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("dismiss replenishment notification: %w", err)
	}
	return n, nil
}

// DeleteByStock elimina todas las notificaciones del stock.
func (r *NotificationRepo) DeleteByStock(ctx context.Context, stockID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM replenishment_notifications WHERE stock_id = $1`, stockID)
	if err != nil {
		return 0, fmt.Errorf("delete replenishment notifications: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanNotification(row scanner) (*entity.ReplenishmentNotification, error) {
	var (
		n      entity.ReplenishmentNotification
		status string
	)
	err := row.Scan(&n.ID, &n.StockID, &status, &n.Quantity, &n.ReorderThreshold, &n.CreatedAt, &n.DismissedAt)
	if err != nil {
		return nil, err
	}
	n.Status = entity.NotificationStatus(status)
	return &n, nil
}
