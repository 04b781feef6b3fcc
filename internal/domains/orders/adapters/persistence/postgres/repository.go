package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists order aggregates in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate root to a relational table.
type orderRecord struct {
	ID          int64             `gorm:"primaryKey;column:id"`
	UserID      *string           `gorm:"column:user_id;index"`
	GuestToken  string            `gorm:"column:guest_token;index"`
	Status      string            `gorm:"column:status;type:varchar(32);index"`
	OrderType   string            `gorm:"column:order_type;type:varchar(16)"`
	TableNumber string            `gorm:"column:table_number"`
	TotalPrice  decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2)"`
	CreatedAt   time.Time         `gorm:"column:created_at;index"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
	Items       []orderItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord holds one snapshot line; position preserves append order.
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

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return getByID(ctx, r.db, id)
}

func (r *Repository) ListByOwner(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// Atomically runs fn inside one database transaction. Post-commit
// callbacks registered on the scope run only after Commit returns
// without error; a rollback discards them.
func (r *Repository) Atomically(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	scope := &txScope{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope.tx = tx
		return fn(ctx, scope)
	})
	if err != nil {
		return err
	}
	for _, cb := range scope.afterCommit {
		cb(ctx)
	}
	return nil
}

func (r *Repository) ReassignGuestOrders(ctx context.Context, guestToken, userID string) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("guest_token = ?", guestToken).
		Update("user_id", userID)
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

// txScope adapts a gorm transaction to the ports.Tx contract.
type txScope struct {
	tx          *gorm.DB
	afterCommit []func(ctx context.Context)
}

func (t *txScope) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return getByID(ctx, t.tx, id)
}

// Save writes the aggregate and replaces its lines wholesale. Lines are
// value snapshots owned by the order, so replacement is simpler and
// safer than diffing.
func (t *txScope) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	items := record.Items
	record.Items = nil
	if err := t.tx.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	if err := t.tx.WithContext(ctx).Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = record.ID
	}
	if len(items) > 0 {
		if err := t.tx.WithContext(ctx).Create(&items).Error; err != nil {
			return nil, err
		}
	}
	return getByID(ctx, t.tx, record.ID)
}

func (t *txScope) AfterCommit(fn func(ctx context.Context)) {
	t.afterCommit = append(t.afterCommit, fn)
}

func getByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var record orderRecord
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:          order.ID,
		GuestToken:  order.GuestToken,
		Status:      string(order.Status),
		OrderType:   string(order.Type),
		TableNumber: order.TableNumber,
		TotalPrice:  order.TotalPrice,
		CreatedAt:   order.CreatedAt,
	}
	if order.UserID != "" {
		userID := order.UserID
		rec.UserID = &userID
	}
	items := make([]orderItemRecord, 0, len(order.Items))
	for i, item := range order.Items {
		items = append(items, orderItemRecord{
			OrderID:       order.ID,
			Position:      i,
			MenuID:        item.MenuID,
			SnapshotName:  item.SnapshotName,
			SnapshotPrice: item.SnapshotPrice,
			Quantity:      item.Quantity,
			Notes:         item.Notes,
		})
	}
	rec.Items = items
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		GuestToken:  r.GuestToken,
		Status:      domain.Status(r.Status),
		Type:        domain.OrderType(r.OrderType),
		TableNumber: r.TableNumber,
		TotalPrice:  r.TotalPrice,
		CreatedAt:   r.CreatedAt,
	}
	if r.UserID != nil {
		order.UserID = *r.UserID
	}
	order.Items = make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			MenuID:        item.MenuID,
			SnapshotName:  item.SnapshotName,
			SnapshotPrice: item.SnapshotPrice,
			Quantity:      item.Quantity,
			Notes:         item.Notes,
		})
	}
	return order
}
