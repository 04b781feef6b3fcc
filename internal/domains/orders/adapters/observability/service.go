package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
)

const tracerName = "github.com/tablebite/order-service/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Create(ctx context.Context, caller domain.Caller, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create",
		trace.WithAttributes(
			attribute.String("order.type", input.OrderType),
			attribute.Int("order.items", len(input.Items)),
			attribute.Bool("caller.authenticated", caller.UserID != ""),
		))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("order.type", input.OrderType), slog.Int("order.items", len(input.Items)))
	result, err := s.inner.Create(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	s.metrics.recordCreated(ctx, result.Type)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalPrice.String()))
	return result, nil
}

func (s *Service) AddItems(ctx context.Context, orderID int64, caller domain.Caller, items []ports.ItemInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AddItems",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int("order.new_items", len(items))))
	defer span.End()

	result, err := s.inner.AddItems(ctx, orderID, caller, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add items", slog.Int64("order.id", orderID))
	}
	s.metrics.recordItemsAdded(ctx, len(items))
	s.logInfo(ctx, "items added", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalPrice.String()))
	return result, nil
}

func (s *Service) Get(ctx context.Context, orderID int64, caller domain.Caller) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.Get(ctx, orderID, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) ListMine(ctx context.Context, caller domain.Caller) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListMine")
	defer span.End()

	result, err := s.inner.ListMine(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) Pay(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Pay", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.Pay(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record payment", slog.Int64("order.id", orderID))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "payment recorded", slog.Int64("order.id", result.ID))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("order.status", status)))
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update status", slog.Int64("order.id", orderID))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "status updated", slog.Int64("order.id", result.ID), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) Cancel(ctx context.Context, orderID int64, caller domain.Caller) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.Cancel(ctx, orderID, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", result.ID))
	return result, nil
}

func (s *Service) MergeGuestOrders(ctx context.Context, userID, guestToken string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.MergeGuestOrders")
	defer span.End()

	count, err := s.inner.MergeGuestOrders(ctx, userID, guestToken)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to merge guest orders")
	}
	span.SetAttributes(attribute.Int64("orders.merged", count))
	s.metrics.recordMerged(ctx, count)
	if count > 0 {
		s.logInfo(ctx, "guest orders merged", slog.Int64("orders.merged", count))
	}
	return count, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	itemsAdded    metric.Int64Counter
	statusChanges metric.Int64Counter
	ordersMerged  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	itemsAdded, _ := m.Int64Counter("orders.service.items_added", metric.WithDescription("Number of line items appended"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of status transitions"))
	ordersMerged, _ := m.Int64Counter("orders.service.guest_merged", metric.WithDescription("Number of guest orders claimed by accounts"))
	return serviceMetrics{ordersCreated: ordersCreated, itemsAdded: itemsAdded, statusChanges: statusChanges, ordersMerged: ordersMerged}
}

func (m serviceMetrics) recordCreated(ctx context.Context, orderType domain.OrderType) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.type", string(orderType))))
	}
}

func (m serviceMetrics) recordItemsAdded(ctx context.Context, count int) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, int64(count))
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status domain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordMerged(ctx context.Context, count int64) {
	if m.ordersMerged != nil && count > 0 {
		m.ordersMerged.Add(ctx, count)
	}
}

var _ ports.Service = (*Service)(nil)
