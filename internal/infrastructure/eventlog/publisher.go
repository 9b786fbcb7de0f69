// Package eventlog publica los eventos de reposición solo en el log estructurado.
// Es el transporte por defecto cuando no hay broker configurado.
package eventlog

import (
	"context"

	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain/entity"
	"github.com/jhoicas/stock-service/pkg/logger"
)

var _ stock.ReplenishmentPublisher = (*Publisher)(nil)

// Publisher escribe cada evento como una línea de log.
type Publisher struct {
	log *logger.Logger
}

// NewPublisher crea el publicador con el componente "eventlog".
func NewPublisher(log *logger.Logger) *Publisher {
	return &Publisher{log: log.Component("eventlog")}
}

// PublishReplenishmentRequested registra el evento; nunca falla.
func (p *Publisher) PublishReplenishmentRequested(_ context.Context, event entity.ReplenishmentRequested) error {
	p.log.Info().
		Str("event_type", event.EventType).
		Str("notification_id", event.NotificationID).
		Str("stock_id", event.StockID).
		Str("product_id", event.ProductID).
		Int("quantity", event.Quantity).
		Int("reorder_threshold", event.ReorderThreshold).
		Time("occurred_at", event.OccurredAt).
		Msg("reposición solicitada")
	return nil
}
