package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
)

// Broker addressing for order-change events.
const (
	ExchangeOrderEvents   = "order.events"
	RoutingKeyOrderChange = "order.created"
)

// DefaultPublishTimeout bounds a single broker publish attempt.
const DefaultPublishTimeout = 5 * time.Second

// OrderEvent is the payload notification consumers receive.
type OrderEvent struct {
	OrderID    int64           `json:"orderId"`
	UserID     string          `json:"userId,omitempty"`
	Status     domain.Status   `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Dispatcher emits exactly one order-change event per successful
// mutation. When the mutation runs inside an atomic scope the publish
// is deferred until the commit is acknowledged, so a consumer can never
// read the event and miss the order in storage. Publish failures are
// logged and swallowed: the mutation already succeeded.
type Dispatcher struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
	timeout   time.Duration
}

func NewDispatcher(publisher ports.EventPublisher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{publisher: publisher, logger: logger, timeout: DefaultPublishTimeout}
}

// AfterCommit registers the publish as a post-commit continuation of tx.
func (d *Dispatcher) AfterCommit(tx ports.Tx, order *domain.Order) {
	event := eventFor(order)
	tx.AfterCommit(func(ctx context.Context) {
		d.publish(ctx, event)
	})
}

// DispatchNow publishes immediately, for mutations running outside any
// atomic scope.
func (d *Dispatcher) DispatchNow(ctx context.Context, order *domain.Order) {
	d.publish(ctx, eventFor(order))
}

func (d *Dispatcher) publish(ctx context.Context, event OrderEvent) {
	if d == nil || d.publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to encode order event",
			slog.Int64("order.id", event.OrderID), slog.String("error", err.Error()))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	if err := d.publisher.Publish(ctx, ExchangeOrderEvents, RoutingKeyOrderChange, body); err != nil {
		d.logger.Error("failed to publish order event",
			slog.Int64("order.id", event.OrderID),
			slog.String("status", string(event.Status)),
			slog.String("error", err.Error()))
		return
	}
	d.logger.Debug("order event published",
		slog.Int64("order.id", event.OrderID), slog.String("status", string(event.Status)))
}

func eventFor(order *domain.Order) OrderEvent {
	return OrderEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
	}
}
