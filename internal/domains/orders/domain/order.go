package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// OrderType distinguishes on-premise from takeaway orders.
type OrderType string

const (
	TypeDineIn  OrderType = "DINE_IN"
	TypeTakeout OrderType = "TAKEOUT"
)

var (
	ErrInvalidOrderType   = errors.New("order type must be DINE_IN or TAKEOUT")
	ErrInvalidStatus      = errors.New("order status is invalid")
	ErrMissingTableNumber = errors.New("table number is required for dine-in orders")
	ErrGuestDineInOnly    = errors.New("anonymous orders must be dine-in")
	ErrEmptyItems         = errors.New("order requires at least one item")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrItemsLocked        = errors.New("items can only be added while pending or preparing")
	ErrNotPending         = errors.New("only pending orders can be cancelled")
)

// LineItem is a priced snapshot of a menu entry at the moment it was
// added. The catalog is never re-read for existing lines, so later menu
// changes do not touch this order.
type LineItem struct {
	MenuID        int64
	SnapshotName  string
	SnapshotPrice decimal.Decimal
	Quantity      int32
	Notes         string
}

// NewLineItem builds a snapshot line from catalog data.
func NewLineItem(menuID int64, name string, price decimal.Decimal, quantity int32, notes string) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	return LineItem{
		MenuID:        menuID,
		SnapshotName:  name,
		SnapshotPrice: price,
		Quantity:      quantity,
		Notes:         strings.TrimSpace(notes),
	}, nil
}

// Total is the line contribution to the order total.
func (li LineItem) Total() decimal.Decimal {
	return li.SnapshotPrice.Mul(decimal.NewFromInt32(li.Quantity))
}

// Order models the customer order aggregate. UserID is empty for
// guest-owned orders; GuestToken is always set.
type Order struct {
	ID          int64
	UserID      string
	GuestToken  string
	Status      Status
	Type        OrderType
	TableNumber string
	Items       []LineItem
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
}

// NewOrder validates and constructs a pending order. A guest token is
// generated when the caller supplied none.
func NewOrder(userID, guestToken string, orderType OrderType, tableNumber string, items []LineItem) (*Order, error) {
	order := &Order{
		UserID:      strings.TrimSpace(userID),
		GuestToken:  strings.TrimSpace(guestToken),
		Status:      StatusPending,
		Type:        orderType,
		TableNumber: strings.TrimSpace(tableNumber),
		Items:       items,
		CreatedAt:   time.Now().UTC(),
	}
	if order.GuestToken == "" {
		order.GuestToken = uuid.NewString()
	}
	if order.UserID == "" && orderType != TypeDineIn {
		return nil, ErrGuestDineInOnly
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.recomputeTotal()
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	switch o.Type {
	case TypeDineIn:
		if o.TableNumber == "" {
			return ErrMissingTableNumber
		}
	case TypeTakeout:
		o.TableNumber = ""
	default:
		return ErrInvalidOrderType
	}
	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// AppendItems adds snapshot lines to a live order. Allowed only while
// the kitchen can still amend the ticket.
func (o *Order) AppendItems(items []LineItem) error {
	if o.Status != StatusPending && o.Status != StatusPreparing {
		return ErrItemsLocked
	}
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	o.Items = append(o.Items, items...)
	o.recomputeTotal()
	return nil
}

// MarkPaid records a trusted payment confirmation. No status guard: the
// payment callback is only reachable by privileged callers.
func (o *Order) MarkPaid() {
	o.Status = StatusPaid
}

// SetStatus applies an administrative status override. Any value in the
// vocabulary is accepted, including jumps; only unknown values fail.
func (o *Order) SetStatus(status Status) error {
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// Cancel moves a pending order to cancelled.
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return ErrNotPending
	}
	o.Status = StatusCancelled
	return nil
}

// GuestOwned reports whether no authenticated account claimed this order.
func (o *Order) GuestOwned() bool {
	return o.UserID == ""
}

func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	o.TotalPrice = total
}

// ParseStatus validates a raw status value against the vocabulary.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !isValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ParseOrderType validates a raw order type value.
func ParseOrderType(raw string) (OrderType, error) {
	switch OrderType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeDineIn:
		return TypeDineIn, nil
	case TypeTakeout:
		return TypeTakeout, nil
	default:
		return "", ErrInvalidOrderType
	}
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusPaid, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
