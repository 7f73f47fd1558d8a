package persistence

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/shared"
)

// MemoryOrderRepository implements order.Repository with an in-memory map.
// It backs embedded use without a database and tests.
type MemoryOrderRepository struct {
	mu      sync.RWMutex
	orders  map[uuid.UUID]order.Order
	seq     int
	seqYear int
}

// NewMemoryOrderRepository creates an empty in-memory order repository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[uuid.UUID]order.Order),
	}
}

// cloneOrder copies an order so callers never alias stored slices
func cloneOrder(o order.Order) order.Order {
	c := o
	c.Lines = append([]order.Line(nil), o.Lines...)
	c.StatusHistory = append([]order.StatusChange(nil), o.StatusHistory...)
	return c
}

// FindByID finds an order by its ID, lines and history included
func (r *MemoryOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := cloneOrder(o)
	return &c, nil
}

// FindByOrderNumber finds an order by its human-readable number
func (r *MemoryOrderRepository) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			c := cloneOrder(o)
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll finds all orders matching the filter
func (r *MemoryOrderRepository) FindAll(_ context.Context, filter shared.Filter) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.collect(func(order.Order) bool { return true }), filter), nil
}

// FindByStatus finds orders in the given status
func (r *MemoryOrderRepository) FindByStatus(_ context.Context, status order.Status, filter shared.Filter) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.collect(func(o order.Order) bool { return o.Status == status }), filter), nil
}

// FindCreatedBetween finds orders with createdAt in [from, to)
func (r *MemoryOrderRepository) FindCreatedBetween(_ context.Context, from, to time.Time) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o order.Order) bool {
		return !o.CreatedAt.Before(from) && o.CreatedAt.Before(to)
	}), nil
}

// ExistsActiveForProduct reports whether any order in an active state has a
// line referencing the product
func (r *MemoryOrderRepository) ExistsActiveForProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if !o.Status.IsActive() {
			continue
		}
		for _, line := range o.Lines {
			if line.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// CountByStatus counts orders in the given status
func (r *MemoryOrderRepository) CountByStatus(_ context.Context, status order.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, o := range r.orders {
		if o.Status == status {
			count++
		}
	}
	return count, nil
}

// NextOrderNumber allocates the next sequential order number. The counter
// only moves forward under the write lock, so concurrent callers never
// receive the same number.
func (r *MemoryOrderRepository) NextOrderNumber(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	year := time.Now().Year()
	if year != r.seqYear {
		r.seqYear = year
		r.seq = 0
	}

	prefix := fmt.Sprintf("SO-%d-", year)
	// Orders saved with externally assigned numbers raise the floor
	for _, o := range r.orders {
		if !strings.HasPrefix(o.OrderNumber, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(o.OrderNumber, prefix)); err == nil && n > r.seq {
			r.seq = n
		}
	}

	r.seq++
	return fmt.Sprintf("%s%05d", prefix, r.seq), nil
}

// Save persists an order with its lines and history. Order numbers are
// unique, mirroring the database index.
func (r *MemoryOrderRepository) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber && existing.ID != o.ID {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("Order number %s already exists", o.OrderNumber))
		}
	}

	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

// SaveWithLock persists an order using optimistic locking on Version
func (r *MemoryOrderRepository) SaveWithLock(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != o.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

// collect gathers matching orders sorted by creation time. Callers hold
// the lock.
func (r *MemoryOrderRepository) collect(match func(order.Order) bool) []order.Order {
	var out []order.Order
	for _, o := range r.orders {
		if match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Ensure MemoryOrderRepository implements order.Repository
var _ order.Repository = (*MemoryOrderRepository)(nil)
