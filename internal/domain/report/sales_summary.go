package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/shopspring/decimal"
)

// SalesSummary is a read model aggregating orders over a period.
// Revenue is computed from the unit prices captured on order lines at
// placement time, so it is stable under later catalog price changes.
type SalesSummary struct {
	PeriodStart    time.Time              `json:"period_start"`
	PeriodEnd      time.Time              `json:"period_end"`
	TotalOrders    int64                  `json:"total_orders"`
	OrdersByStatus map[order.Status]int64 `json:"orders_by_status"`
	TotalQuantity  int64                  `json:"total_quantity"`
	TotalRevenue   decimal.Decimal        `json:"total_revenue"`
	AvgOrderValue  decimal.Decimal        `json:"avg_order_value"`
	Products       []ProductSales         `json:"products"`
}

// ProductSales aggregates sales per product over a period
type ProductSales struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	OrderCount  int64           `json:"order_count"`
}

// DashboardSummary is the at-a-glance read model for the seller landing page
type DashboardSummary struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	ShippedOrders   int64           `json:"shipped_orders"`
	CancelledOrders int64           `json:"cancelled_orders"`
	LowStockCount   int64           `json:"low_stock_count"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// DateRange is a half-open interval [From, To)
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether ts falls inside the range
func (r DateRange) Contains(ts time.Time) bool {
	return !ts.Before(r.From) && ts.Before(r.To)
}

// IsValid reports whether From precedes To
func (r DateRange) IsValid() bool {
	return r.From.Before(r.To)
}
