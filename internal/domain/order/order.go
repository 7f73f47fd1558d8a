package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the status of an order
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusCancelled Status = "CANCELLED"
	StatusReturned  Status = "RETURNED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusConfirmed, StatusShipped, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for states with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned
}

// IsActive returns true for states that hold a stock reservation
func (s Status) IsActive() bool {
	return s == StatusPlaced || s == StatusConfirmed || s == StatusShipped
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPlaced:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusReturned
	case StatusCancelled, StatusReturned:
		return false // Terminal states
	}
	return false
}

// ActiveStatuses returns the statuses that hold a stock reservation
func ActiveStatuses() []Status {
	return []Status{StatusPlaced, StatusConfirmed, StatusShipped}
}

// Line represents a line item in an order.
// UnitPrice is captured at placement time so later catalog price changes
// never rewrite order history or analytics.
type Line struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductSKU  string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// NewLine creates a new order line
func NewLine(orderID, productID uuid.UUID, sku, name string, quantity int64, unitPrice valueobject.Money) (*Line, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	return &Line{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductSKU:  sku,
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      unitPrice.MulInt(quantity).Amount(),
		CreatedAt:   time.Now(),
	}, nil
}

// GetAmountMoney returns the line amount as Money
func (l *Line) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(l.Amount)
}

// StatusChange is one append-only entry in an order's status history
type StatusChange struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    Status    `gorm:"type:varchar(20);not null"`
	ChangedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StatusChange) TableName() string {
	return "order_status_history"
}

// Order represents a customer order aggregate root.
// Orders are never physically deleted; cancellation and return are statuses.
// StatusHistory is append-only and always reflects a valid transition path.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Lines         []Line          `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        Status          `gorm:"type:varchar(20);not null;index"`
	StatusHistory []StatusChange  `gorm:"foreignKey:OrderID;references:ID"`
	CancelReason  string          `gorm:"type:varchar(200)"`
	ConfirmedAt   *time.Time
	ShippedAt     *time.Time
	CancelledAt   *time.Time
	ReturnedAt    *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// LineInput carries the data needed to build one order line
type LineInput struct {
	ProductID   uuid.UUID
	ProductSKU  string
	ProductName string
	Quantity    int64
	UnitPrice   valueobject.Money
}

// NewOrder creates a new order in PLACED status with its history seeded
func NewOrder(orderNumber string, inputs []LineInput) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewValidationError("Order number cannot exceed 50 characters")
	}
	if len(inputs) == 0 {
		return nil, shared.NewValidationError("Order must contain at least one line item")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Lines:             make([]Line, 0, len(inputs)),
		TotalAmount:       decimal.Zero,
		Status:            StatusPlaced,
	}

	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.ProductID] {
			return nil, shared.NewValidationError(
				fmt.Sprintf("Duplicate product %s in order; merge quantities into one line", in.ProductSKU))
		}
		seen[in.ProductID] = true

		line, err := NewLine(o.ID, in.ProductID, in.ProductSKU, in.ProductName, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, *line)
		o.TotalAmount = o.TotalAmount.Add(line.Amount)
	}

	o.StatusHistory = []StatusChange{{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Status:    StatusPlaced,
		ChangedAt: o.CreatedAt,
	}}

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// TransitionTo moves the order to the target status if the state machine
// allows it, appending to the status history. On failure the order is left
// unchanged.
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot transition order %s from %s to %s", o.OrderNumber, o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()

	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusShipped:
		o.ShippedAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	case StatusReturned:
		o.ReturnedAt = &now
	}

	o.StatusHistory = append(o.StatusHistory, StatusChange{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Status:    target,
		ChangedAt: now,
	})

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))

	return nil
}

// Cancel transitions the order to CANCELLED recording the reason
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}
	if err := o.TransitionTo(StatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}

// GetTotalAmountMoney returns the order total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// HoldsReservation returns true while the order's lines reserve stock
func (o *Order) HoldsReservation() bool {
	return o.Status.IsActive()
}

// GetLineByProduct returns the line for a product, or nil
func (o *Order) GetLineByProduct(productID uuid.UUID) *Line {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			return &o.Lines[idx]
		}
	}
	return nil
}
