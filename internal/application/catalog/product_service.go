package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/catalog"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/domain/shared/valueobject"
	"github.com/sellerdesk/core/internal/infrastructure/locking"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	orderRepo      order.Repository
	locks          *locking.KeyedMutex
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	orderRepo order.Repository,
	locks *locking.KeyedMutex,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		locks:       locks,
	}
}

// SetEventPublisher sets the event publisher for cross-component integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("Product with SKU %s already exists", req.SKU))
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, valueobject.NewMoneyUSD(req.Price), req.InitialStock)
	if err != nil {
		return nil, err
	}

	if req.Category != "" {
		if err := product.Update(req.Name, req.Category); err != nil {
			return nil, err
		}
	}
	if req.MinStock > 0 {
		if err := product.SetMinStock(req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU returns a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns a paginated product list
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListLowStock returns active products at or below their alert threshold
func (s *ProductService) ListLowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update updates a product's basic information, price, and threshold
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name == nil && req.Category == nil && req.Price == nil && req.MinStock == nil {
		response := ToProductResponse(product)
		return &response, nil
	}

	if req.Name != nil || req.Category != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		category := product.Category
		if req.Category != nil {
			category = *req.Category
		}
		if err := product.Update(name, category); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.UpdatePrice(valueobject.NewMoneyUSD(*req.Price)); err != nil {
			return nil, err
		}
	}

	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a manual signed stock adjustment, e.g. a restock
// delivery or a shrinkage correction. It takes the product lock so manual
// adjustments never race order placement.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.locks.Acquire(ctx, id); err != nil {
		return nil, err
	}
	defer s.locks.Release(id)

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.AdjustStock(req.Delta); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delist marks a product as delisted. Products referenced by orders in an
// active state cannot be delisted; their reservations still need releasing.
func (s *ProductService) Delist(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	active, err := s.orderRepo.ExistsActiveForProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, shared.NewConflictError(
			fmt.Sprintf("Product %s has active orders and cannot be delisted", product.SKU))
	}

	if err := product.Delist(); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// publishEvents publishes pending domain events. Event handling is best
// effort; failures never roll back the completed operation.
func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}
