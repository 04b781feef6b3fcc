package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, menuID int64, name string, price string, quantity int32) LineItem {
	t.Helper()
	line, err := NewLineItem(menuID, name, decimal.RequireFromString(price), quantity, "")
	require.NoError(t, err)
	return line
}

func TestNewOrder_GuestDineIn(t *testing.T) {
	order, err := NewOrder("", "", TypeDineIn, "T5", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 2),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Empty(t, order.UserID)
	assert.NotEmpty(t, order.GuestToken)
	assert.Equal(t, "T5", order.TableNumber)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("20.00")), "total was %s", order.TotalPrice)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestNewOrder_KeepsSuppliedGuestToken(t *testing.T) {
	order, err := NewOrder("", "tok-abc", TypeDineIn, "T1", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", order.GuestToken)
}

func TestNewOrder_UserTakeout(t *testing.T) {
	order, err := NewOrder("user-7", "", TypeTakeout, "", []LineItem{
		mustLine(t, 1, "Burger", "5.00", 1),
		mustLine(t, 2, "Fries", "3.50", 2),
	})
	require.NoError(t, err)

	assert.Equal(t, "user-7", order.UserID)
	assert.Empty(t, order.TableNumber)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("12.00")), "total was %s", order.TotalPrice)
}

func TestNewOrder_TakeoutClearsTableNumber(t *testing.T) {
	order, err := NewOrder("user-7", "", TypeTakeout, "T9", []LineItem{
		mustLine(t, 1, "Burger", "5.00", 1),
	})
	require.NoError(t, err)
	assert.Empty(t, order.TableNumber)
}

func TestNewOrder_GuestTakeoutRejected(t *testing.T) {
	_, err := NewOrder("", "", TypeTakeout, "", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 1),
	})
	require.ErrorIs(t, err, ErrGuestDineInOnly)
}

func TestNewOrder_DineInRequiresTable(t *testing.T) {
	_, err := NewOrder("user-7", "", TypeDineIn, "  ", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 1),
	})
	require.ErrorIs(t, err, ErrMissingTableNumber)
}

func TestNewOrder_RequiresItems(t *testing.T) {
	_, err := NewOrder("user-7", "", TypeDineIn, "T5", nil)
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestNewLineItem_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := NewLineItem(1, "Burger", decimal.RequireFromString("10.00"), 0, "")
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = NewLineItem(1, "Burger", decimal.RequireFromString("10.00"), -2, "")
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAppendItems_RecomputesTotal(t *testing.T) {
	order, err := NewOrder("", "", TypeDineIn, "T5", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 2),
	})
	require.NoError(t, err)

	require.NoError(t, order.AppendItems([]LineItem{mustLine(t, 1, "Burger", "10.00", 1)}))
	assert.Len(t, order.Items, 2)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("30.00")), "total was %s", order.TotalPrice)
}

func TestAppendItems_AllowedWhilePreparing(t *testing.T) {
	order, err := NewOrder("", "", TypeDineIn, "T5", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 1),
	})
	require.NoError(t, err)
	require.NoError(t, order.SetStatus(StatusPreparing))

	assert.NoError(t, order.AppendItems([]LineItem{mustLine(t, 2, "Fries", "3.50", 1)}))
}

func TestAppendItems_LockedAfterProgression(t *testing.T) {
	for _, status := range []Status{StatusPaid, StatusReady, StatusCompleted, StatusCancelled} {
		order, err := NewOrder("", "", TypeDineIn, "T5", []LineItem{
			mustLine(t, 1, "Burger", "10.00", 1),
		})
		require.NoError(t, err)
		require.NoError(t, order.SetStatus(status))

		err = order.AppendItems([]LineItem{mustLine(t, 2, "Fries", "3.50", 1)})
		assert.ErrorIs(t, err, ErrItemsLocked, "status %s", status)
	}
}

func TestSetStatus_RejectsUnknownValue(t *testing.T) {
	order, err := NewOrder("", "", TypeDineIn, "T5", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 1),
	})
	require.NoError(t, err)
	require.ErrorIs(t, order.SetStatus("SHIPPED"), ErrInvalidStatus)
}

func TestSetStatus_AllowsJumpsAndBackwardsMoves(t *testing.T) {
	order, err := NewOrder("", "", TypeDineIn, "T5", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 1),
	})
	require.NoError(t, err)

	require.NoError(t, order.SetStatus(StatusReady))
	require.NoError(t, order.SetStatus(StatusPending))
}

func TestCancel_OnlyWhilePending(t *testing.T) {
	order, err := NewOrder("user-7", "", TypeDineIn, "T5", []LineItem{
		mustLine(t, 1, "Burger", "10.00", 1),
	})
	require.NoError(t, err)

	require.NoError(t, order.Cancel())
	assert.Equal(t, StatusCancelled, order.Status)

	order.MarkPaid()
	require.ErrorIs(t, order.Cancel(), ErrNotPending)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" preparing ")
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, status)

	_, err = ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseOrderType(t *testing.T) {
	orderType, err := ParseOrderType("dine_in")
	require.NoError(t, err)
	assert.Equal(t, TypeDineIn, orderType)

	_, err = ParseOrderType("DELIVERY")
	require.ErrorIs(t, err, ErrInvalidOrderType)
}
