package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/shared"
)

// Repository defines persistence operations for the Order aggregate
type Repository interface {
	// FindByID finds an order by its ID, lines and history included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	// FindByStatus finds orders in the given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Order, error)
	// FindCreatedBetween finds orders with createdAt in [from, to)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]Order, error)
	// ExistsActiveForProduct reports whether any order in an active state
	// has a line referencing the product
	ExistsActiveForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
	// CountByStatus counts orders in the given status
	CountByStatus(ctx context.Context, status Status) (int64, error)
	// NextOrderNumber generates the next sequential order number
	NextOrderNumber(ctx context.Context) (string, error)
	// Save persists an order with its lines and history
	Save(ctx context.Context, o *Order) error
	// SaveWithLock persists an order using optimistic locking on Version
	SaveWithLock(ctx context.Context, o *Order) error
}
