package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDelisted ProductStatus = "delisted"
)

// Product represents a sellable product/SKU in the catalog.
// It is the aggregate root for catalog operations.
// StockQuantity is never negative; it always equals the initial stock minus
// the quantities of all orders currently in an active state. All stock
// mutations must go through AdjustStock while holding the product lock.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Category      string          `gorm:"type:varchar(100);index"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity int64           `gorm:"not null;default:0"`
	MinStock      int64           `gorm:"not null;default:0"` // Low-stock alert threshold
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(sku, name string, price valueobject.Money, initialStock int64) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Price cannot be negative")
	}
	if initialStock < 0 {
		return nil, shared.NewValidationError("Initial stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             price.Amount(),
		StockQuantity:     initialStock,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, category string) error {
	if err := validateName(name); err != nil {
		return err
	}

	p.Name = name
	p.Category = category
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// UpdatePrice updates the selling price.
// Historical order lines are unaffected: they capture the price at
// placement time.
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetMinStock sets the low-stock alert threshold
func (p *Product) SetMinStock(minStock int64) error {
	if minStock < 0 {
		return shared.NewValidationError("Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AdjustStock applies a signed delta to the stock quantity.
// A negative delta reserves stock for an order line; a positive delta
// restores it. The caller must hold the product-level lock.
func (p *Product) AdjustStock(delta int64) error {
	if p.Status == ProductStatusDelisted {
		return shared.NewConflictError(fmt.Sprintf("Product %s is delisted", p.SKU))
	}

	newQuantity := p.StockQuantity + delta
	if newQuantity < 0 {
		return shared.NewInsufficientStockError(
			fmt.Sprintf("Insufficient stock for product %s: have %d, requested %d", p.SKU, p.StockQuantity, -delta))
	}

	p.StockQuantity = newQuantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockAdjustedEvent(p, delta))

	if p.IsBelowMinimum() {
		p.AddDomainEvent(NewStockBelowThresholdEvent(p))
	}

	return nil
}

// Delist marks the product as delisted. Order lines keep referencing the
// product; the application service rejects delisting while active orders
// exist.
func (p *Product) Delist() error {
	if p.Status == ProductStatusDelisted {
		return shared.NewConflictError("Product is already delisted")
	}

	p.Status = ProductStatusDelisted
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductDelistedEvent(p))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsDelisted returns true if the product is delisted
func (p *Product) IsDelisted() bool {
	return p.Status == ProductStatusDelisted
}

// IsBelowMinimum returns true if stock is at or below the alert threshold
func (p *Product) IsBelowMinimum() bool {
	return p.MinStock > 0 && p.StockQuantity <= p.MinStock
}

// CanFulfill returns true if the stock can cover the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return p.StockQuantity >= quantity
}

// GetPriceMoney returns the price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewValidationError("Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewValidationError("Product SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewValidationError("Product SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateName validates the product name
func validateName(name string) error {
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	return nil
}
