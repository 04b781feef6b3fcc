package ports

import (
	"context"
	"errors"

	"github.com/tablebite/order-service/internal/domains/menu/domain"
)

var ErrNotFound = errors.New("menu item not found")

// Catalog resolves menu entries for snapshot pricing and listing. The
// write path (admin CRUD) lives outside this service.
type Catalog interface {
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
}
