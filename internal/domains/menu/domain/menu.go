package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("menu item name is required")
	ErrNegativePrice = errors.New("menu item price cannot be negative")
)

// Item is a menu catalog entry. Orders copy its name and price at
// mutation time and never read it again.
type Item struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// Validate enforces catalog invariants.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
