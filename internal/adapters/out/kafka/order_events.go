// internal/adapters/out/kafka/order_events.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	orderdom "storefront/internal/domain/order"
)

const EventOrderCreated = "order.created"

// messageWriter は *kafka.Writer のうち使う部分。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// OrderCreatedEvent is the payload of EventOrderCreated.
type OrderCreatedEvent struct {
	Type         string    `json:"type"`
	OrderNumber  string    `json:"orderNumber"`
	OrderMonth   string    `json:"orderMonth"`
	CustomerName string    `json:"customerName"`
	ItemCount    int       `json:"itemCount"`
	Total        string    `json:"total"`
	CreatedAt    time.Time `json:"createdAt"`
}

type OrderEventPublisher struct {
	Writer messageWriter
}

// NewOrderEventPublisher returns nil when no broker is configured.
func NewOrderEventPublisher(brokers []string, topic string) *OrderEventPublisher {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil
	}
	return &OrderEventPublisher{Writer: &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  strings.TrimSpace(topic),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func NewOrderCreatedEvent(o orderdom.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		Type:         EventOrderCreated,
		OrderNumber:  o.Number,
		OrderMonth:   o.Month,
		CustomerName: o.Customer.Name,
		ItemCount:    len(o.Items),
		Total:        o.Total.StringFixed(2),
		CreatedAt:    o.CreatedAt.UTC(),
	}
}

// PublishOrderCreated は orderNumber をキーにして同じ注文のイベントを同一 partition に寄せる。
func (p *OrderEventPublisher) PublishOrderCreated(ctx context.Context, o orderdom.Order) error {
	if p == nil || p.Writer == nil {
		return nil
	}
	payload, err := json.Marshal(NewOrderCreatedEvent(o))
	if err != nil {
		return fmt.Errorf("kafka: marshal %s: %w", EventOrderCreated, err)
	}
	if err := p.Writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(o.Number),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(EventOrderCreated)},
		},
	}); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", EventOrderCreated, err)
	}
	return nil
}

func (p *OrderEventPublisher) Close() error {
	if p == nil || p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
