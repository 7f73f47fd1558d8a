package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/shared"
)

// ProductRepository defines persistence operations for the Product aggregate
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	// FindByStatus finds products by status
	FindByStatus(ctx context.Context, status ProductStatus, filter shared.Filter) ([]Product, error)
	// FindBelowMinStock finds active products at or below their alert threshold
	FindBelowMinStock(ctx context.Context) ([]Product, error)
	// Save persists a product
	Save(ctx context.Context, product *Product) error
	// SaveWithLock persists a product using optimistic locking on Version
	SaveWithLock(ctx context.Context, product *Product) error
	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsBySKU reports whether a product with the SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
