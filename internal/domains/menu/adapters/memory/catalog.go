package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tablebite/order-service/internal/domains/menu/domain"
	"github.com/tablebite/order-service/internal/domains/menu/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog is an in-memory menu catalog adapter, seeded at construction.
type Catalog struct {
	mu    sync.RWMutex
	items map[int64]*domain.Item
}

func NewCatalog(items ...domain.Item) *Catalog {
	c := &Catalog{items: map[int64]*domain.Item{}}
	for i := range items {
		clone := items[i]
		c.items[clone.ID] = &clone
	}
	return c
}

func (c *Catalog) FindByID(_ context.Context, id int64) (*domain.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (c *Catalog) List(_ context.Context) ([]*domain.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]*domain.Item, 0, len(c.items))
	for _, item := range c.items {
		clone := *item
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
