package memory

import (
	"context"

	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las "transacciones" en memoria con un mutex global.
// No hay rollback: las funciones validan antes de escribir.
type TxRunner struct {
	mu            chan struct{}
	stocks        *StockEntryRepo
	notifications *NotificationRepo
}

// NewTxRunner construye el runner sobre los repositorios compartidos.
func NewTxRunner(stocks *StockEntryRepo, notifications *NotificationRepo) *TxRunner {
	return &TxRunner{
		mu:            make(chan struct{}, 1),
		stocks:        stocks,
		notifications: notifications,
	}
}

// Run adquiere el candado (respetando ctx) y ejecuta fn.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockEntryRepository,
	notificationRepo repository.ReplenishmentNotificationRepository,
) error) error {
	select {
	case r.mu <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-r.mu }()
	return fn(r.stocks, r.notifications)
}
