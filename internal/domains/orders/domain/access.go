package domain

import "errors"

var (
	ErrAccessDenied  = errors.New("caller is not permitted to access this order")
	ErrOwnerRequired = errors.New("operation requires the authenticated owner")
)

// Caller carries the explicit identity of the requesting party. Either
// field may be empty; both empty means a fully anonymous caller.
type Caller struct {
	UserID     string
	GuestToken string
}

// AuthorizeAccess applies the owner rule shared by reads and item
// mutations: a user-owned order admits only the matching user id, a
// guest-owned order admits only the matching guest token. A guest token
// never opens a user-owned order.
func AuthorizeAccess(order *Order, caller Caller) error {
	if order.GuestOwned() {
		if caller.GuestToken != "" && caller.GuestToken == order.GuestToken {
			return nil
		}
		return ErrAccessDenied
	}
	if caller.UserID != "" && caller.UserID == order.UserID {
		return nil
	}
	return ErrAccessDenied
}

// AuthorizeOwner admits only the authenticated account owner. Guest
// orders cannot pass this check, so they cannot self-cancel.
func AuthorizeOwner(order *Order, caller Caller) error {
	if order.GuestOwned() || caller.UserID == "" || caller.UserID != order.UserID {
		return ErrOwnerRequired
	}
	return nil
}
