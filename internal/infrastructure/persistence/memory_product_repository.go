package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/catalog"
	"github.com/sellerdesk/core/internal/domain/shared"
)

// MemoryProductRepository implements catalog.ProductRepository with an
// in-memory map. It backs embedded use without a database and tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]catalog.Product
}

// NewMemoryProductRepository creates an empty in-memory product repository
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uuid.UUID]catalog.Product),
	}
}

// FindByID finds a product by its ID
func (r *MemoryProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

// FindBySKU finds a product by its SKU
func (r *MemoryProductRepository) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sku = strings.ToUpper(sku)
	for _, p := range r.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll finds all products matching the filter
func (r *MemoryProductRepository) FindAll(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.collect(func(catalog.Product) bool { return true }, filter), filter), nil
}

// FindByStatus finds products by status
func (r *MemoryProductRepository) FindByStatus(_ context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.collect(func(p catalog.Product) bool { return p.Status == status }, filter), filter), nil
}

// FindBelowMinStock finds active products at or below their alert threshold
func (r *MemoryProductRepository) FindBelowMinStock(_ context.Context) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []catalog.Product
	for _, p := range r.products {
		if p.IsActive() && p.IsBelowMinimum() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockQuantity < out[j].StockQuantity })
	return out, nil
}

// Save persists a product
func (r *MemoryProductRepository) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

// SaveWithLock persists a product using optimistic locking on Version
func (r *MemoryProductRepository) SaveWithLock(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != product.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.products[product.ID] = *product
	return nil
}

// Count counts products matching the filter
func (r *MemoryProductRepository) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.collect(func(catalog.Product) bool { return true }, filter))), nil
}

// ExistsBySKU reports whether a product with the SKU exists
func (r *MemoryProductRepository) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sku = strings.ToUpper(sku)
	for _, p := range r.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

// collect gathers matching products, applying search and field filters,
// sorted by creation time for stable ordering. Callers hold the lock.
func (r *MemoryProductRepository) collect(match func(catalog.Product) bool, filter shared.Filter) []catalog.Product {
	var out []catalog.Product
	for _, p := range r.products {
		if !match(p) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.SKU), needle) &&
				!strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
		}
		if v, ok := filter.Filters["status"]; ok && string(p.Status) != toString(v) {
			continue
		}
		if v, ok := filter.Filters["category"]; ok && p.Category != toString(v) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case catalog.ProductStatus:
		return string(s)
	}
	return ""
}

func paginate[T any](items []T, filter shared.Filter) []T {
	if filter.PageSize <= 0 {
		return items
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * filter.PageSize
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Ensure MemoryProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*MemoryProductRepository)(nil)
