package postgres

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tablebite/order-service/internal/domains/menu/domain"
	"github.com/tablebite/order-service/internal/domains/menu/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog reads menu entries from PostgreSQL using GORM.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog wires a PostgreSQL-backed catalog. Caller manages DB lifecycle.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// menuRecord maps a catalog entry to a relational table.
type menuRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Description string          `gorm:"column:description"`
	ImageURL    string          `gorm:"column:image_url"`
}

func (menuRecord) TableName() string { return "menus" }

func (c *Catalog) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var record menuRecord
	if err := c.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (c *Catalog) List(ctx context.Context) ([]*domain.Item, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var records []menuRecord
	if err := c.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (c *Catalog) ensureDB() error {
	if c == nil || c.db == nil {
		return errors.New("postgres menu catalog not configured")
	}
	return nil
}

func (r menuRecord) toDomain() *domain.Item {
	return &domain.Item{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}
