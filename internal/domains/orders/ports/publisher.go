package ports

import "context"

// EventPublisher is the broker-facing sink for order-change events.
// Publish failures are observable to the dispatcher but must never
// surface to the caller of a mutation.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, payload []byte) error
}
