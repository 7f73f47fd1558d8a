package report

import (
	"context"

	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/shared"
)

// OrderActivityHandler invalidates cached summaries whenever order history
// changes, so reports recompute on the next query instead of waiting out
// the TTL.
type OrderActivityHandler struct {
	reports *ReportService
}

// NewOrderActivityHandler creates a new OrderActivityHandler
func NewOrderActivityHandler(reports *ReportService) *OrderActivityHandler {
	return &OrderActivityHandler{reports: reports}
}

// Handle processes an order event
func (h *OrderActivityHandler) Handle(ctx context.Context, _ shared.DomainEvent) error {
	h.reports.InvalidateCache(ctx)
	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *OrderActivityHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
	}
}

// Ensure OrderActivityHandler implements EventHandler
var _ shared.EventHandler = (*OrderActivityHandler)(nil)
