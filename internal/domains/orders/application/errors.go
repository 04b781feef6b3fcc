package application

import (
	"errors"
	"fmt"

	menuports "github.com/tablebite/order-service/internal/domains/menu/ports"
	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrForbidden signals the caller failed the owner rule.
	ErrForbidden = errors.New("caller may not act on this order")
	// ErrInvalidState signals the operation is illegal for the current status.
	ErrInvalidState = errors.New("order state does not permit this operation")
	// ErrNotFound signals the order or a referenced menu entry is unknown.
	ErrNotFound = errors.New("resource not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidOrderType) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrMissingTableNumber) ||
		errors.Is(err, domain.ErrGuestDineInOnly) ||
		errors.Is(err, domain.ErrEmptyItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrItemsLocked) ||
		errors.Is(err, domain.ErrNotPending) {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if errors.Is(err, domain.ErrAccessDenied) ||
		errors.Is(err, domain.ErrOwnerRequired) {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	if errors.Is(err, menuports.ErrNotFound) || errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
