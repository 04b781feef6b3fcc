package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
)

// stubTx records post-commit callbacks without any backing store.
type stubTx struct {
	callbacks []func(ctx context.Context)
}

func (s *stubTx) GetByID(context.Context, int64) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTx) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	return order, nil
}

func (s *stubTx) AfterCommit(fn func(ctx context.Context)) {
	s.callbacks = append(s.callbacks, fn)
}

func (s *stubTx) commit(ctx context.Context) {
	for _, cb := range s.callbacks {
		cb(ctx)
	}
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:         42,
		UserID:     "user-7",
		Status:     domain.StatusPaid,
		TotalPrice: decimal.RequireFromString("20.00"),
	}
}

func TestDispatcher_DefersPublishUntilCommit(t *testing.T) {
	publisher := &recordingPublisher{}
	dispatcher := NewDispatcher(publisher, slog.Default())
	tx := &stubTx{}

	dispatcher.AfterCommit(tx, sampleOrder())
	assert.Empty(t, publisher.recorded(), "nothing may reach the broker before commit")

	tx.commit(context.Background())

	events := publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, int64(42), events[0].OrderID)
	assert.Equal(t, "user-7", events[0].UserID)
	assert.Equal(t, domain.StatusPaid, events[0].Status)
	assert.True(t, events[0].TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestDispatcher_SnapshotsEventAtRegistration(t *testing.T) {
	publisher := &recordingPublisher{}
	dispatcher := NewDispatcher(publisher, slog.Default())
	tx := &stubTx{}

	order := sampleOrder()
	dispatcher.AfterCommit(tx, order)
	order.Status = domain.StatusCancelled

	tx.commit(context.Background())

	events := publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, domain.StatusPaid, events[0].Status)
}

func TestDispatcher_SwallowsPublishFailure(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	dispatcher := NewDispatcher(publisher, slog.Default())
	tx := &stubTx{}

	dispatcher.AfterCommit(tx, sampleOrder())
	assert.NotPanics(t, func() { tx.commit(context.Background()) })
	assert.Empty(t, publisher.recorded())
}

func TestDispatcher_NilPublisherIsNoOp(t *testing.T) {
	dispatcher := NewDispatcher(nil, slog.Default())
	assert.NotPanics(t, func() {
		dispatcher.DispatchNow(context.Background(), sampleOrder())
	})
}

func TestDispatcher_DispatchNowPublishesImmediately(t *testing.T) {
	publisher := &recordingPublisher{}
	dispatcher := NewDispatcher(publisher, slog.Default())

	dispatcher.DispatchNow(context.Background(), sampleOrder())

	require.Len(t, publisher.recorded(), 1)
}

func TestDispatcher_PublishSurvivesCancelledContext(t *testing.T) {
	publisher := &recordingPublisher{}
	dispatcher := NewDispatcher(publisher, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dispatcher.DispatchNow(ctx, sampleOrder())

	require.Len(t, publisher.recorded(), 1, "publish runs detached from the request context")
}
