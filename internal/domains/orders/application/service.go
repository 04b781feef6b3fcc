package application

import (
	"context"
	"fmt"
	"strings"

	menuports "github.com/tablebite/order-service/internal/domains/menu/ports"
	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
)

// Service orchestrates the order lifecycle use cases: creation, item
// mutation, payment and status progression, cancellation, and guest
// account merging.
type Service struct {
	repo       ports.Repository
	catalog    menuports.Catalog
	dispatcher *Dispatcher
}

func NewService(repo ports.Repository, catalog menuports.Catalog, dispatcher *Dispatcher) *Service {
	return &Service{repo: repo, catalog: catalog, dispatcher: dispatcher}
}

// Create opens a pending order for the caller. Anonymous callers get a
// generated guest token and may only order dine-in.
func (s *Service) Create(ctx context.Context, caller domain.Caller, input ports.CreateOrderInput) (*domain.Order, error) {
	orderType, err := domain.ParseOrderType(input.OrderType)
	if err != nil {
		return nil, mapError(err)
	}
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrEmptyItems)
	}
	lines, err := s.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewOrder(caller.UserID, caller.GuestToken, orderType, input.TableNumber, lines)
	if err != nil {
		return nil, mapError(err)
	}
	var saved *domain.Order
	err = s.repo.Atomically(ctx, func(ctx context.Context, tx ports.Tx) error {
		var txErr error
		saved, txErr = tx.Save(ctx, order)
		if txErr != nil {
			return txErr
		}
		s.dispatcher.AfterCommit(tx, saved)
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// AddItems appends snapshot lines to a pending or preparing order owned
// by the caller.
func (s *Service) AddItems(ctx context.Context, orderID int64, caller domain.Caller, items []ports.ItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, mapError(domain.ErrEmptyItems)
	}
	lines, err := s.snapshotItems(ctx, items)
	if err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		if err := domain.AuthorizeAccess(order, caller); err != nil {
			return err
		}
		return order.AppendItems(lines)
	})
}

// Get returns the order when the caller passes the owner rule.
func (s *Service) Get(ctx context.Context, orderID int64, caller domain.Caller) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.AuthorizeAccess(order, caller); err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// ListMine returns the authenticated caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, caller domain.Caller) ([]*domain.Order, error) {
	if strings.TrimSpace(caller.UserID) == "" {
		return nil, mapError(domain.ErrAccessDenied)
	}
	return s.repo.ListByOwner(ctx, caller.UserID)
}

// Pay records a trusted payment confirmation. The payment collaborator
// is privileged, so there is no owner check and no status guard.
func (s *Service) Pay(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		order.MarkPaid()
		return nil
	})
}

// UpdateStatus applies an administrative status override. Any value in
// the vocabulary is accepted; forward-only enforcement is deliberately
// left to staff judgment.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		return order.SetStatus(parsed)
	})
}

// Cancel moves a pending order to cancelled. Only the authenticated
// account owner may cancel; guest tokens do not pass this check.
func (s *Service) Cancel(ctx context.Context, orderID int64, caller domain.Caller) (*domain.Order, error) {
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		if err := domain.AuthorizeOwner(order, caller); err != nil {
			return err
		}
		return order.Cancel()
	})
}

// MergeGuestOrders claims every order carrying the guest token for the
// user, preserving order history across authentication. Blank arguments
// are a no-op, not an error.
func (s *Service) MergeGuestOrders(ctx context.Context, userID, guestToken string) (int64, error) {
	userID = strings.TrimSpace(userID)
	guestToken = strings.TrimSpace(guestToken)
	if userID == "" || guestToken == "" {
		return 0, nil
	}
	return s.repo.ReassignGuestOrders(ctx, guestToken, userID)
}

// mutate runs a single read-modify-write revision of one order inside
// an atomic scope and schedules the change event for after commit.
func (s *Service) mutate(ctx context.Context, orderID int64, apply func(order *domain.Order) error) (*domain.Order, error) {
	var saved *domain.Order
	err := s.repo.Atomically(ctx, func(ctx context.Context, tx ports.Tx) error {
		order, txErr := tx.GetByID(ctx, orderID)
		if txErr != nil {
			return txErr
		}
		if txErr = apply(order); txErr != nil {
			return txErr
		}
		saved, txErr = tx.Save(ctx, order)
		if txErr != nil {
			return txErr
		}
		s.dispatcher.AfterCommit(tx, saved)
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) snapshotItems(ctx context.Context, items []ports.ItemInput) ([]domain.LineItem, error) {
	lines := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		entry, err := s.catalog.FindByID(ctx, item.MenuID)
		if err != nil {
			return nil, fmt.Errorf("menu %d: %w", item.MenuID, err)
		}
		line, err := domain.NewLineItem(entry.ID, entry.Name, entry.Price, item.Quantity, item.Notes)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

var _ ports.Service = (*Service)(nil)
