package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/catalog"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/domain/shared/valueobject"
	"github.com/sellerdesk/core/internal/infrastructure/locking"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBelowMinStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.Status, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]order.Order, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) ExistsActiveForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func newTestService() (*ProductService, *MockProductRepository, *MockOrderRepository) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	service := NewProductService(productRepo, orderRepo, locking.NewKeyedMutex(0))
	return service, productRepo, orderRepo
}

func newStoredProduct(t *testing.T, sku string, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku, valueobject.NewMoneyUSD(decimal.NewFromInt(10)), stock)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product", func(t *testing.T) {
		service, productRepo, _ := newTestService()
		productRepo.On("ExistsBySKU", ctx, "GADGET-1").Return(false, nil)
		productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(ctx, CreateProductRequest{
			SKU:          "gadget-1",
			Name:         "Gadget",
			Category:     "tools",
			Price:        decimal.RequireFromString("19.99"),
			InitialStock: 5,
			MinStock:     2,
		})

		require.NoError(t, err)
		assert.Equal(t, "GADGET-1", resp.SKU)
		assert.Equal(t, int64(5), resp.StockQuantity)
		assert.Equal(t, int64(2), resp.MinStock)
		assert.Equal(t, "tools", resp.Category)
		productRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate sku", func(t *testing.T) {
		service, productRepo, _ := newTestService()
		productRepo.On("ExistsBySKU", ctx, "DUP").Return(true, nil)

		_, err := service.Create(ctx, CreateProductRequest{
			SKU:   "DUP",
			Name:  "Duplicate",
			Price: decimal.NewFromInt(1),
		})

		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.Create(ctx, CreateProductRequest{SKU: "NONAME"})

		assert.True(t, shared.IsValidation(err))
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial update", func(t *testing.T) {
		service, productRepo, _ := newTestService()
		p := newStoredProduct(t, "UPD-1", 10)
		productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		productRepo.On("SaveWithLock", ctx, p).Return(nil)

		newName := "Renamed"
		newPrice := decimal.RequireFromString("12.50")
		resp, err := service.Update(ctx, p.ID, UpdateProductRequest{
			Name:  &newName,
			Price: &newPrice,
		})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Name)
		assert.True(t, resp.Price.Equal(newPrice))
		productRepo.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		service, productRepo, _ := newTestService()
		id := uuid.New()
		productRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, UpdateProductRequest{})

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("restock", func(t *testing.T) {
		service, productRepo, _ := newTestService()
		p := newStoredProduct(t, "ADJ-1", 3)
		productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		productRepo.On("SaveWithLock", ctx, p).Return(nil)

		resp, err := service.AdjustStock(ctx, p.ID, AdjustStockRequest{Delta: 7})

		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.StockQuantity)
	})

	t.Run("cannot go negative", func(t *testing.T) {
		service, productRepo, _ := newTestService()
		p := newStoredProduct(t, "ADJ-2", 3)
		productRepo.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := service.AdjustStock(ctx, p.ID, AdjustStockRequest{Delta: -4})

		assert.True(t, shared.IsInsufficientStock(err))
		productRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestProductService_Delist(t *testing.T) {
	ctx := context.Background()

	t.Run("delists product without active orders", func(t *testing.T) {
		service, productRepo, orderRepo := newTestService()
		p := newStoredProduct(t, "DEL-1", 1)
		productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		orderRepo.On("ExistsActiveForProduct", ctx, p.ID).Return(false, nil)
		productRepo.On("SaveWithLock", ctx, p).Return(nil)

		resp, err := service.Delist(ctx, p.ID)

		require.NoError(t, err)
		assert.Equal(t, string(catalog.ProductStatusDelisted), resp.Status)
	})

	t.Run("rejected while active orders reference it", func(t *testing.T) {
		service, productRepo, orderRepo := newTestService()
		p := newStoredProduct(t, "DEL-2", 1)
		productRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		orderRepo.On("ExistsActiveForProduct", ctx, p.ID).Return(true, nil)

		_, err := service.Delist(ctx, p.ID)

		assert.True(t, shared.IsConflict(err))
		productRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	service, productRepo, _ := newTestService()

	products := []catalog.Product{*newStoredProduct(t, "L-1", 4), *newStoredProduct(t, "L-2", 9)}
	filter := shared.DefaultFilter()
	productRepo.On("FindAll", ctx, filter).Return(products, nil)
	productRepo.On("Count", ctx, filter).Return(int64(2), nil)

	page, err := service.List(ctx, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.TotalPages)
}
