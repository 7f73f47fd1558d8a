package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLineInput(quantity int64, price float64) LineInput {
	return LineInput{
		ProductID:   uuid.New(),
		ProductSKU:  "SKU-001",
		ProductName: "Wireless Mouse",
		Quantity:    quantity,
		UnitPrice:   valueobject.NewMoneyUSDFromFloat(price),
	}
}

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("SO-20260825-0001", []LineInput{testLineInput(2, 29.99)})
	require.NoError(t, err)
	return o
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusPlaced, true},
		{StatusConfirmed, true},
		{StatusShipped, true},
		{StatusCancelled, true},
		{StatusReturned, true},
		{Status("INVALID"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		canTrans bool
	}{
		// From PLACED
		{StatusPlaced, StatusConfirmed, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusPlaced, StatusShipped, false},
		{StatusPlaced, StatusReturned, false},
		// From CONFIRMED
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPlaced, false},
		{StatusConfirmed, StatusReturned, false},
		// From SHIPPED
		{StatusShipped, StatusReturned, true},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusConfirmed, false},
		{StatusShipped, StatusPlaced, false},
		// From CANCELLED (terminal)
		{StatusCancelled, StatusPlaced, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusShipped, false},
		{StatusCancelled, StatusReturned, false},
		// From RETURNED (terminal)
		{StatusReturned, StatusPlaced, false},
		{StatusReturned, StatusConfirmed, false},
		{StatusReturned, StatusShipped, false},
		{StatusReturned, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewOrder(t *testing.T) {
	o := createTestOrder(t)

	assert.Equal(t, StatusPlaced, o.Status)
	assert.Len(t, o.Lines, 1)
	assert.Equal(t, int64(2), o.TotalQuantity())
	assert.True(t, o.GetTotalAmountMoney().Equal(valueobject.NewMoneyUSDFromFloat(59.98)))
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, StatusPlaced, o.StatusHistory[0].Status)
	assert.Equal(t, o.CreatedAt, o.StatusHistory[0].ChangedAt)
}

func TestNewOrder_Validation(t *testing.T) {
	t.Run("no lines", func(t *testing.T) {
		_, err := NewOrder("SO-1", nil)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("empty order number", func(t *testing.T) {
		_, err := NewOrder("", []LineInput{testLineInput(1, 10)})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewOrder("SO-1", []LineInput{testLineInput(0, 10)})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("duplicate product", func(t *testing.T) {
		in := testLineInput(1, 10)
		_, err := NewOrder("SO-1", []LineInput{in, in})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestOrder_TransitionTo_ValidPath(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.TransitionTo(StatusConfirmed))
	assert.NotNil(t, o.ConfirmedAt)
	require.NoError(t, o.TransitionTo(StatusShipped))
	assert.NotNil(t, o.ShippedAt)
	require.NoError(t, o.TransitionTo(StatusReturned))
	assert.NotNil(t, o.ReturnedAt)

	require.Len(t, o.StatusHistory, 4)
	assert.Equal(t, StatusPlaced, o.StatusHistory[0].Status)
	assert.Equal(t, StatusConfirmed, o.StatusHistory[1].Status)
	assert.Equal(t, StatusShipped, o.StatusHistory[2].Status)
	assert.Equal(t, StatusReturned, o.StatusHistory[3].Status)
}

func TestOrder_TransitionTo_Invalid(t *testing.T) {
	o := createTestOrder(t)

	err := o.TransitionTo(StatusReturned)
	require.Error(t, err)
	assert.True(t, shared.IsInvalidTransition(err))

	// Status and history unchanged after a rejected transition
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Len(t, o.StatusHistory, 1)
}

func TestOrder_TransitionTo_Terminal(t *testing.T) {
	o := createTestOrder(t)
	require.NoError(t, o.Cancel("customer request"))

	for _, target := range []Status{StatusPlaced, StatusConfirmed, StatusShipped, StatusReturned} {
		err := o.TransitionTo(target)
		require.Error(t, err)
		assert.True(t, shared.IsInvalidTransition(err))
	}
}

func TestOrder_Cancel(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.Cancel("customer request"))
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, "customer request", o.CancelReason)
	assert.NotNil(t, o.CancelledAt)
	assert.False(t, o.HoldsReservation())
}

func TestOrder_Cancel_RequiresReason(t *testing.T) {
	o := createTestOrder(t)

	err := o.Cancel("")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, StatusPlaced, o.Status)
}

func TestOrder_HoldsReservation(t *testing.T) {
	o := createTestOrder(t)
	assert.True(t, o.HoldsReservation())

	require.NoError(t, o.TransitionTo(StatusConfirmed))
	assert.True(t, o.HoldsReservation())

	require.NoError(t, o.TransitionTo(StatusShipped))
	assert.True(t, o.HoldsReservation())

	require.NoError(t, o.TransitionTo(StatusReturned))
	assert.False(t, o.HoldsReservation())
}

func TestOrder_GetLineByProduct(t *testing.T) {
	in := testLineInput(3, 9.99)
	o, err := NewOrder("SO-2", []LineInput{in})
	require.NoError(t, err)

	line := o.GetLineByProduct(in.ProductID)
	require.NotNil(t, line)
	assert.Equal(t, int64(3), line.Quantity)

	assert.Nil(t, o.GetLineByProduct(uuid.New()))
}
