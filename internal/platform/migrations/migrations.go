package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&menuRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Menu schema mirrors the menu Postgres adapter.
type menuRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Description string          `gorm:"column:description"`
	ImageURL    string          `gorm:"column:image_url"`
}

func (menuRecord) TableName() string { return "menus" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	UserID      *string         `gorm:"column:user_id;index"`
	GuestToken  string          `gorm:"column:guest_token;index"`
	Status      string          `gorm:"column:status;type:varchar(32);index"`
	OrderType   string          `gorm:"column:order_type;type:varchar(16)"`
	TableNumber string          `gorm:"column:table_number"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema mirrors the orders Postgres adapter.
type orderItemRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	OrderID       int64           `gorm:"column:order_id;index"`
	Position      int             `gorm:"column:position"`
	MenuID        int64           `gorm:"column:menu_id"`
	SnapshotName  string          `gorm:"column:snapshot_name"`
	SnapshotPrice decimal.Decimal `gorm:"column:snapshot_price;type:numeric(12,2)"`
	Quantity      int32           `gorm:"column:quantity"`
	Notes         string          `gorm:"column:notes"`
}

func (orderItemRecord) TableName() string { return "order_items" }
