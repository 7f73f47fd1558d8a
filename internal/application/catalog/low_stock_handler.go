package catalog

import (
	"context"

	"github.com/sellerdesk/core/internal/domain/catalog"
	"github.com/sellerdesk/core/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler surfaces low-stock alerts in the log whenever an
// adjustment drops a product to or below its threshold
type LowStockHandler struct {
	logger *zap.Logger
}

// NewLowStockHandler creates a new LowStockHandler
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// Handle processes a stock threshold event
func (h *LowStockHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*catalog.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("product stock at or below threshold",
		zap.String("sku", alert.SKU),
		zap.Int64("stock_quantity", alert.StockQuantity),
		zap.Int64("min_stock", alert.MinStock),
	)
	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockBelowThreshold}
}

// Ensure LowStockHandler implements EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)
