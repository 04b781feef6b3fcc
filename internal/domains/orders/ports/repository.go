package ports

import (
	"context"
	"errors"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Tx is the view of the order store inside one atomic scope. Callbacks
// registered with AfterCommit run only once the commit is acknowledged;
// a rollback discards them.
type Tx interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	AfterCommit(fn func(ctx context.Context))
}

// Repository persists order aggregates. Atomically runs fn inside one
// transaction; the store's row-level isolation serializes concurrent
// mutations to the same order.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByOwner(ctx context.Context, userID string) ([]*domain.Order, error)
	Atomically(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// ReassignGuestOrders claims every order carrying the guest token for
	// the given user id and reports how many changed.
	ReassignGuestOrders(ctx context.Context, guestToken, userID string) (int64, error)
}
