package catalog

import (
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductUpdated      = "ProductUpdated"
	EventTypeProductPriceChanged = "ProductPriceChanged"
	EventTypeProductDelisted     = "ProductDelisted"
	EventTypeStockAdjusted       = "StockAdjusted"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// ProductCreatedEvent is raised when a new product is added to the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock_quantity"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		Name:            product.Name,
		Price:           product.Price,
		StockQuantity:   product.StockQuantity,
	}
}

// ProductUpdatedEvent is raised when product info changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// ProductPriceChangedEvent is raised when the selling price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	SKU      string          `json:"sku"`
	OldPrice decimal.Decimal `json:"old_price"`
	NewPrice decimal.Decimal `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		OldPrice:        oldPrice,
		NewPrice:        product.Price,
	}
}

// ProductDelistedEvent is raised when a product is delisted
type ProductDelistedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductDelistedEvent creates a new ProductDelistedEvent
func NewProductDelistedEvent(product *Product) *ProductDelistedEvent {
	return &ProductDelistedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDelisted, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
	}
}

// StockAdjustedEvent is raised when stock is reserved or restored
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	SKU         string `json:"sku"`
	Delta       int64  `json:"delta"`
	NewQuantity int64  `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(product *Product, delta int64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		Delta:           delta,
		NewQuantity:     product.StockQuantity,
	}
}

// StockBelowThresholdEvent is raised when stock drops to or below MinStock
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	SKU           string `json:"sku"`
	StockQuantity int64  `json:"stock_quantity"`
	MinStock      int64  `json:"min_stock"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(product *Product) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		StockQuantity:   product.StockQuantity,
		MinStock:        product.MinStock,
	}
}
