package order

import (
	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeStockRestored      = "StockRestored"
	EventTypeStockRestoreFailed = "StockRestoreFailed"
)

// LineInfo carries line item information on events
type LineInfo struct {
	LineID      uuid.UUID       `json:"line_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func lineInfos(o *Order) []LineInfo {
	infos := make([]LineInfo, len(o.Lines))
	for i, line := range o.Lines {
		infos[i] = LineInfo{
			LineID:      line.ID,
			ProductID:   line.ProductID,
			ProductSKU:  line.ProductSKU,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		}
	}
	return infos
}

// OrderPlacedEvent is raised when a new order is placed with stock reserved
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Lines       []LineInfo      `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Lines:           lineInfos(o),
		TotalAmount:     o.TotalAmount,
	}
}

// OrderStatusChangedEvent is raised on every valid status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	FromStatus  Status    `json:"from_status"`
	ToStatus    Status    `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		FromStatus:      from,
		ToStatus:        o.Status,
	}
}

// StockRestoredEvent is raised when cancelled/returned stock goes back to
// the catalog
type StockRestoredEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// NewStockRestoredEvent creates a new StockRestoredEvent
func NewStockRestoredEvent(o *Order, productID uuid.UUID, quantity int64) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestored, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ProductID:       productID,
		Quantity:        quantity,
	}
}

// StockRestoreFailedEvent is raised when restoration for one line fails;
// the cancellation itself still stands
type StockRestoreFailedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Reason    string    `json:"reason"`
}

// NewStockRestoreFailedEvent creates a new StockRestoreFailedEvent
func NewStockRestoreFailedEvent(o *Order, productID uuid.UUID, quantity int64, reason string) *StockRestoreFailedEvent {
	return &StockRestoreFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestoreFailed, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ProductID:       productID,
		Quantity:        quantity,
		Reason:          reason,
	}
}
