package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) order.Repository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, lines and history included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order by id: %w", err)
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its human-readable number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		Where("order_number = ?", orderNumber).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order by number: %w", err)
	}
	return &o, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.db.WithContext(ctx).Model(&order.Order{}).Preload("Lines")
	query = r.applyFilter(query, filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	return orders, nil
}

// FindByStatus finds orders in the given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status order.Status, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.db.WithContext(ctx).Model(&order.Order{}).
		Preload("Lines").
		Where("status = ?", status)
	query = r.applyFilter(query, filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders by status: %w", err)
	}
	return orders, nil
}

// FindCreatedBetween finds orders with createdAt in [from, to)
func (r *GormOrderRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]order.Order, error) {
	var orders []order.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders in range: %w", err)
	}
	return orders, nil
}

// ExistsActiveForProduct reports whether any order in an active state has a
// line referencing the product
func (r *GormOrderRepository) ExistsActiveForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.Order{}).
		Joins("JOIN order_lines ON order_lines.order_id = orders.id").
		Where("order_lines.product_id = ?", productID).
		Where("orders.status IN ?", order.ActiveStatuses()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check active orders for product: %w", err)
	}
	return count > 0, nil
}

// CountByStatus counts orders in the given status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return count, nil
}

// NextOrderNumber generates the next sequential order number in the form
// SO-<year>-00001
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("SO-%d-", time.Now().Year())

	var last order.Order
	err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&last).Error

	seq := 1
	if err == nil {
		suffix := strings.TrimPrefix(last.OrderNumber, prefix)
		if n, parseErr := strconv.Atoi(suffix); parseErr == nil {
			seq = n + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}

	return fmt.Sprintf("%s%05d", prefix, seq), nil
}

// Save persists an order with its lines and history.
// Lines are immutable and history is append-only, so child rows use
// insert-or-ignore semantics.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(o).Error; err != nil {
			// Losing an order-number race hits the unique index; callers
			// reallocate and retry
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewDomainError(shared.CodeAlreadyExists,
					fmt.Sprintf("Order number %s already exists", o.OrderNumber))
			}
			return fmt.Errorf("failed to save order: %w", err)
		}
		if err := r.saveChildren(tx, o); err != nil {
			return err
		}
		return nil
	})
}

// SaveWithLock persists an order using optimistic locking on Version
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, o.Version-1).
			Updates(map[string]interface{}{
				"status":        o.Status,
				"total_amount":  o.TotalAmount,
				"cancel_reason": o.CancelReason,
				"confirmed_at":  o.ConfirmedAt,
				"shipped_at":    o.ShippedAt,
				"cancelled_at":  o.CancelledAt,
				"returned_at":   o.ReturnedAt,
				"version":       o.Version,
				"updated_at":    o.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to save order with lock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.saveChildren(tx, o)
	})
}

func (r *GormOrderRepository) saveChildren(tx *gorm.DB, o *order.Order) error {
	if len(o.Lines) > 0 {
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&o.Lines).Error
		if err != nil {
			return fmt.Errorf("failed to save order lines: %w", err)
		}
	}
	if len(o.StatusHistory) > 0 {
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&o.StatusHistory).Error
		if err != nil {
			return fmt.Errorf("failed to save order status history: %w", err)
		}
	}
	return nil
}

// applyFilter applies ordering and pagination
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := "created_at"
	if filter.OrderBy != "" {
		switch filter.OrderBy {
		case "order_number", "status", "total_amount", "created_at", "updated_at":
			orderBy = filter.OrderBy
		}
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
