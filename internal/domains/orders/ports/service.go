package ports

import (
	"context"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
)

// ItemInput references a menu entry to snapshot into an order line.
type ItemInput struct {
	MenuID   int64
	Quantity int32
	Notes    string
}

// CreateOrderInput carries the caller's request to open an order.
type CreateOrderInput struct {
	OrderType   string
	TableNumber string
	Items       []ItemInput
}

// Service exposes the order lifecycle use cases to adapters. Every
// caller-facing operation takes an explicit Caller; nothing is read
// from ambient state.
type Service interface {
	Create(ctx context.Context, caller domain.Caller, input CreateOrderInput) (*domain.Order, error)
	AddItems(ctx context.Context, orderID int64, caller domain.Caller, items []ItemInput) (*domain.Order, error)
	Get(ctx context.Context, orderID int64, caller domain.Caller) (*domain.Order, error)
	ListMine(ctx context.Context, caller domain.Caller) ([]*domain.Order, error)
	Pay(ctx context.Context, orderID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID int64, caller domain.Caller) (*domain.Order, error)
	MergeGuestOrders(ctx context.Context, userID, guestToken string) (int64, error)
}
