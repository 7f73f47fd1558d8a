package orders

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// validateRequest runs struct validation and maps failures to domain
// validation errors
func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return shared.NewValidationError(err.Error())
	}
	return nil
}

// PlaceOrderLine is one requested line in a new order
type PlaceOrderLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderRequest represents a request to place a new order
type PlaceOrderRequest struct {
	Lines []PlaceOrderLine `json:"lines" validate:"required,min=1,dive"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=200"`
}

// LineResponse represents an order line in responses
type LineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// StatusChangeResponse represents one status history entry
type StatusChangeResponse struct {
	Status    order.Status `json:"status"`
	ChangedAt time.Time    `json:"changed_at"`
}

// OrderResponse represents an order in responses.
// RestockWarnings is only populated by cancel and return operations when
// restoring stock for some line failed; the state change itself stands.
type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	Status          order.Status           `json:"status"`
	Lines           []LineResponse         `json:"lines"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	StatusHistory   []StatusChangeResponse `json:"status_history"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time             `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	ReturnedAt      *time.Time             `json:"returned_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
	RestockWarnings []string               `json:"restock_warnings,omitempty"`
}

// ToOrderResponse converts an order aggregate to a response
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]LineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = LineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductSKU:  line.ProductSKU,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		}
	}

	history := make([]StatusChangeResponse, len(o.StatusHistory))
	for i, change := range o.StatusHistory {
		history[i] = StatusChangeResponse{
			Status:    change.Status,
			ChangedAt: change.ChangedAt,
		}
	}

	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		Lines:         lines,
		TotalAmount:   o.TotalAmount,
		StatusHistory: history,
		CancelReason:  o.CancelReason,
		ConfirmedAt:   o.ConfirmedAt,
		ShippedAt:     o.ShippedAt,
		CancelledAt:   o.CancelledAt,
		ReturnedAt:    o.ReturnedAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Version:       o.Version,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(items []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(items))
	for idx := range items {
		out = append(out, ToOrderResponse(&items[idx]))
	}
	return out
}
