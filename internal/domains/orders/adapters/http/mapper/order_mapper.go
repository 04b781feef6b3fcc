package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/tablebite/order-service/internal/domains/orders/domain"
	ordersports "github.com/tablebite/order-service/internal/domains/orders/ports"
)

// Order is the transport-layer shape of the aggregate.
type Order struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	GuestToken  string          `json:"guestToken"`
	Status      string          `json:"status"`
	OrderType   string          `json:"orderType"`
	TableNumber string          `json:"tableNumber,omitempty"`
	Items       []OrderItem     `json:"items"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderItem is the transport-layer shape of a snapshot line.
type OrderItem struct {
	MenuID        int64           `json:"menuId"`
	SnapshotName  string          `json:"snapshotName"`
	SnapshotPrice decimal.Decimal `json:"snapshotPrice"`
	Quantity      int32           `json:"quantity"`
	Notes         string          `json:"notes,omitempty"`
}

// CreateOrderRequest is the payload for opening an order. The guest
// token, when present, is folded into the caller identity.
type CreateOrderRequest struct {
	OrderType   string             `json:"orderType"`
	TableNumber string             `json:"tableNumber"`
	GuestToken  string             `json:"guestToken"`
	Items       []OrderItemRequest `json:"items"`
}

// OrderItemRequest references a menu entry to add.
type OrderItemRequest struct {
	MenuID   int64  `json:"menuId"`
	Quantity int32  `json:"quantity"`
	Notes    string `json:"notes"`
}

// AddItemsRequest is the payload for appending lines to an order.
type AddItemsRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// UpdateStatusRequest carries the administrative status override.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// MergeRequest links a guest session to an authenticated account.
type MergeRequest struct {
	GuestToken string `json:"guestToken"`
}

// MergeResponse reports how many orders changed hands.
type MergeResponse struct {
	Merged int64 `json:"merged"`
}

// ToCreateInput converts the transport request to the service input.
func ToCreateInput(req CreateOrderRequest) ordersports.CreateOrderInput {
	return ordersports.CreateOrderInput{
		OrderType:   req.OrderType,
		TableNumber: req.TableNumber,
		Items:       ToItemInputs(req.Items),
	}
}

// ToItemInputs converts transport item references.
func ToItemInputs(items []OrderItemRequest) []ordersports.ItemInput {
	inputs := make([]ordersports.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, ordersports.ItemInput{
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}
	return inputs
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			MenuID:        item.MenuID,
			SnapshotName:  item.SnapshotName,
			SnapshotPrice: item.SnapshotPrice,
			Quantity:      item.Quantity,
			Notes:         item.Notes,
		})
	}
	return Order{
		ID:          order.ID,
		UserID:      order.UserID,
		GuestToken:  order.GuestToken,
		Status:      string(order.Status),
		OrderType:   string(order.Type),
		TableNumber: order.TableNumber,
		Items:       items,
		TotalPrice:  order.TotalPrice,
		CreatedAt:   order.CreatedAt,
	}
}

// FromDomainOrders converts a list of domain orders.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
