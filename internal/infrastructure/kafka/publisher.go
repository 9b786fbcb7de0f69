package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain/entity"
)

var _ stock.ReplenishmentPublisher = (*Publisher)(nil)

// Publisher publica eventos de reposición en un topic de Kafka; la clave es el stock_id
// para que los eventos de una misma entrada conserven el orden dentro de la partición.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher crea el writer sobre los brokers y el topic indicados.
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: writer}
}

// PublishReplenishmentRequested escribe el evento como JSON con clave stock_id.
func (p *Publisher) PublishReplenishmentRequested(ctx context.Context, event entity.ReplenishmentRequested) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write replenishment event: %w", err)
	}
	return nil
}

// Close vacía los mensajes pendientes y cierra el writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newMessage(event entity.ReplenishmentRequested) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: marshal replenishment event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.StockID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}, nil
}
