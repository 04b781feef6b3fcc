package rabbitmq

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tablebite/order-service/internal/domains/orders/ports"
	platformrabbit "github.com/tablebite/order-service/internal/platform/rabbitmq"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher delivers order-change events to RabbitMQ.
type Publisher struct {
	client *platformrabbit.Client
}

// NewPublisher wires a broker-backed publisher. Caller owns the client lifecycle.
func NewPublisher(client *platformrabbit.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends one persistent JSON message to the exchange. Delivery
// past the broker is at-most-once; the dispatcher decides what failures
// mean.
func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, payload []byte) error {
	if p == nil || p.client == nil {
		return errors.New("rabbitmq publisher not configured")
	}
	if err := p.client.Ping(); err != nil {
		return err
	}
	return p.client.Channel().PublishWithContext(
		ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now().UTC(),
			Body:         payload,
		},
	)
}
