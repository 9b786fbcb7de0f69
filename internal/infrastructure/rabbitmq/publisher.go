package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain/entity"
)

// RoutingKeyReplenishmentRequested clave de ruteo de los eventos de reposición.
const RoutingKeyReplenishmentRequested = "stock.replenishment.requested"

var _ stock.ReplenishmentPublisher = (*Publisher)(nil)

// Publisher publica eventos de reposición en un exchange topic de RabbitMQ.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher crea el publicador sobre un canal ya configurado (ver SetupConn).
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// PublishReplenishmentRequested publica el evento persistente con la clave de ruteo de reposición.
func (p *Publisher) PublishReplenishmentRequested(ctx context.Context, event entity.ReplenishmentRequested) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}
	err = p.ch.PublishWithContext(ctx,
		p.exchange,                       // exchange
		RoutingKeyReplenishmentRequested, // routing key
		false,                            // mandatory
		false,                            // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish replenishment event: %w", err)
	}
	return nil
}

func newPublishing(event entity.ReplenishmentRequested) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("could not marshal replenishment event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.NotificationID,
		Type:         event.EventType,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}
