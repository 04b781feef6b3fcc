package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store. Atomic scopes hold the write
// lock for their whole duration, which serializes concurrent mutations
// the way row-level isolation does in the real store.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByOwner(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID && userID != "" {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// Atomically runs fn against the live map under the write lock. On
// error the previous entries are restored and registered callbacks are
// discarded; on success the callbacks run after the lock is released.
func (r *Repository) Atomically(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	r.mu.Lock()
	backup := make(map[int64]*domain.Order, len(r.orders))
	for id, order := range r.orders {
		backup[id] = order
	}
	backupNextID := r.nextID

	scope := &txScope{repo: r}
	if err := fn(ctx, scope); err != nil {
		r.orders = backup
		r.nextID = backupNextID
		r.mu.Unlock()
		return err
	}
	callbacks := scope.afterCommit
	r.mu.Unlock()
	for _, cb := range callbacks {
		cb(ctx)
	}
	return nil
}

func (r *Repository) ReassignGuestOrders(_ context.Context, guestToken, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, order := range r.orders {
		if order.GuestToken != guestToken {
			continue
		}
		claimed := cloneOrder(order)
		claimed.UserID = userID
		r.orders[id] = claimed
		count++
	}
	return count, nil
}

// txScope operates on the repository while Atomically holds the lock.
type txScope struct {
	repo        *Repository
	afterCommit []func(ctx context.Context)
}

func (t *txScope) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := t.repo.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (t *txScope) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	clone := cloneOrder(order)
	if clone.ID == 0 {
		t.repo.nextID++
		clone.ID = t.repo.nextID
	} else if clone.ID > t.repo.nextID {
		t.repo.nextID = clone.ID
	}
	t.repo.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (t *txScope) AfterCommit(fn func(ctx context.Context)) {
	t.afterCommit = append(t.afterCommit, fn)
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = make([]domain.LineItem, len(order.Items))
	copy(clone.Items, order.Items)
	return &clone
}
