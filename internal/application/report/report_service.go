package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/catalog"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/report"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService computes sales summaries and dashboard read models from
// order history. Revenue always comes from the prices captured on order
// lines, never from current catalog prices, and excludes cancelled and
// returned orders.
type ReportService struct {
	orderRepo   order.Repository
	productRepo catalog.ProductRepository
	cache       cache.SummaryCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	summaryCache cache.SummaryCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ReportService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &ReportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cache:       summaryCache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Summarize aggregates orders created in the given range.
// Results are cached per range; cache failures fall through to a fresh
// computation.
func (s *ReportService) Summarize(ctx context.Context, period report.DateRange) (*report.SalesSummary, error) {
	if !period.IsValid() {
		return nil, shared.NewValidationError("Period start must precede period end")
	}

	cacheKey := fmt.Sprintf("range:%d:%d", period.From.Unix(), period.To.Unix())
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	orders, err := s.orderRepo.FindCreatedBetween(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(period, orders)
	s.toCache(ctx, cacheKey, summary)

	return summary, nil
}

// Dashboard returns the at-a-glance summary across all order history
func (s *ReportService) Dashboard(ctx context.Context) (*report.DashboardSummary, error) {
	orders, err := s.orderRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	totalSales := decimal.Zero
	var pending, shipped, cancelled int64
	for idx := range orders {
		o := &orders[idx]
		switch o.Status {
		case order.StatusPlaced, order.StatusConfirmed:
			pending++
		case order.StatusShipped:
			shipped++
		case order.StatusCancelled:
			cancelled++
		}
		if countsTowardRevenue(o.Status) {
			totalSales = totalSales.Add(o.TotalAmount)
		}
	}

	lowStock, err := s.productRepo.FindBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}

	return &report.DashboardSummary{
		TotalSales:      totalSales,
		TotalOrders:     int64(len(orders)),
		PendingOrders:   pending,
		ShippedOrders:   shipped,
		CancelledOrders: cancelled,
		LowStockCount:   int64(len(lowStock)),
		GeneratedAt:     time.Now(),
	}, nil
}

// InvalidateCache drops all cached summaries. Order mutations call this so
// stale summaries never outlive their TTL unnecessarily.
func (s *ReportService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

// countsTowardRevenue reports whether an order's amount belongs in revenue.
// Cancelled and returned orders are excluded entirely.
func countsTowardRevenue(status order.Status) bool {
	return status.IsActive()
}

// buildSummary folds orders into a summary for the period
func buildSummary(period report.DateRange, orders []order.Order) *report.SalesSummary {
	summary := &report.SalesSummary{
		PeriodStart:    period.From,
		PeriodEnd:      period.To,
		TotalOrders:    int64(len(orders)),
		OrdersByStatus: make(map[order.Status]int64),
		TotalRevenue:   decimal.Zero,
		AvgOrderValue:  decimal.Zero,
	}

	perProduct := make(map[uuid.UUID]*report.ProductSales)
	var revenueOrders int64

	for idx := range orders {
		o := &orders[idx]
		summary.OrdersByStatus[o.Status]++

		if !countsTowardRevenue(o.Status) {
			continue
		}

		revenueOrders++
		summary.TotalRevenue = summary.TotalRevenue.Add(o.TotalAmount)

		for _, line := range o.Lines {
			summary.TotalQuantity += line.Quantity

			sales, ok := perProduct[line.ProductID]
			if !ok {
				sales = &report.ProductSales{
					ProductID:   line.ProductID,
					ProductSKU:  line.ProductSKU,
					ProductName: line.ProductName,
					Revenue:     decimal.Zero,
				}
				perProduct[line.ProductID] = sales
			}
			sales.Quantity += line.Quantity
			sales.Revenue = sales.Revenue.Add(line.Amount)
			sales.OrderCount++
		}
	}

	if revenueOrders > 0 {
		summary.AvgOrderValue = summary.TotalRevenue.DivRound(decimal.NewFromInt(revenueOrders), 4)
	}

	summary.Products = make([]report.ProductSales, 0, len(perProduct))
	for _, sales := range perProduct {
		summary.Products = append(summary.Products, *sales)
	}
	sort.Slice(summary.Products, func(i, j int) bool {
		if !summary.Products[i].Revenue.Equal(summary.Products[j].Revenue) {
			return summary.Products[i].Revenue.GreaterThan(summary.Products[j].Revenue)
		}
		return summary.Products[i].ProductSKU < summary.Products[j].ProductSKU
	})

	return summary
}

// fromCache returns a cached summary, or nil
func (s *ReportService) fromCache(ctx context.Context, key string) *report.SalesSummary {
	if s.cache == nil {
		return nil
	}

	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("summary cache read failed", zap.Error(err))
		return nil
	}
	if payload == nil {
		return nil
	}

	var summary report.SalesSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		s.logger.Warn("cached summary is unreadable", zap.Error(err))
		return nil
	}
	return &summary
}

// toCache stores a computed summary, best effort
func (s *ReportService) toCache(ctx context.Context, key string, summary *report.SalesSummary) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		s.logger.Warn("summary serialization failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logger.Warn("summary cache write failed", zap.Error(err))
	}
}
