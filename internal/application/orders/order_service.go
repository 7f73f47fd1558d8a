package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/domain/catalog"
	"github.com/sellerdesk/core/internal/domain/order"
	"github.com/sellerdesk/core/internal/domain/shared"
	"github.com/sellerdesk/core/internal/infrastructure/locking"
	"go.uber.org/zap"
)

// OrderService handles the order lifecycle and keeps catalog stock
// consistent with it. Stock is reserved when an order is placed and
// restored when it is cancelled or returned.
type OrderService struct {
	orderRepo      order.Repository
	productRepo    catalog.ProductRepository
	productLocks   *locking.KeyedMutex
	orderLocks     *locking.KeyedMutex
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService. Product and order locks are
// separate keyed mutexes; product keys are shared with the catalog service.
func NewOrderService(
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	productLocks *locking.KeyedMutex,
	orderLocks *locking.KeyedMutex,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		productLocks: productLocks,
		orderLocks:   orderLocks,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-component integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// reservation records one applied stock deduction so a failed placement
// can compensate in reverse order
type reservation struct {
	product  *catalog.Product
	quantity int64
}

// Place places a new order, reserving stock for every line or nothing.
// Product locks are taken for all lines up front; partial reservations are
// rolled back before the error is returned, so a failed placement never
// leaves stock deducted.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(req.Lines))
	seen := make(map[uuid.UUID]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		if _, dup := seen[line.ProductID]; dup {
			return nil, shared.NewValidationError(
				fmt.Sprintf("Duplicate product %s in order; merge quantities into one line", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}
		productIDs = append(productIDs, line.ProductID)
	}

	release, err := s.productLocks.AcquireMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	defer release()

	reservations := make([]reservation, 0, len(req.Lines))
	rollback := func() {
		for i := len(reservations) - 1; i >= 0; i-- {
			res := reservations[i]
			if err := res.product.AdjustStock(res.quantity); err != nil {
				s.logger.Error("failed to roll back stock reservation",
					zap.String("product_id", res.product.ID.String()),
					zap.Int64("quantity", res.quantity),
					zap.Error(err))
				continue
			}
			if err := s.productRepo.SaveWithLock(ctx, res.product); err != nil {
				s.logger.Error("failed to persist stock reservation rollback",
					zap.String("product_id", res.product.ID.String()),
					zap.Int64("quantity", res.quantity),
					zap.Error(err))
			}
		}
	}

	inputs := make([]order.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			rollback()
			if shared.IsNotFound(err) {
				return nil, shared.NewNotFoundError(fmt.Sprintf("Product %s not found", line.ProductID))
			}
			return nil, err
		}

		if err := product.AdjustStock(-line.Quantity); err != nil {
			rollback()
			return nil, err
		}
		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			rollback()
			return nil, err
		}
		reservations = append(reservations, reservation{product: product, quantity: line.Quantity})

		inputs = append(inputs, order.LineInput{
			ProductID:   product.ID,
			ProductSKU:  product.SKU,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.GetPriceMoney(),
		})
	}

	o, err := s.persistNewOrder(ctx, inputs)
	if err != nil {
		rollback()
		return nil, err
	}

	for _, res := range reservations {
		s.publishProductEvents(ctx, res.product)
	}
	s.publishOrderEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// maxNumberAttempts bounds retries when concurrent placements race for the
// same order number
const maxNumberAttempts = 3

// persistNewOrder allocates an order number and saves the order. Number
// allocation and insertion are not one atomic step, so a concurrent
// placement can win the same number; the unique constraint rejects the
// loser and the allocation is retried.
func (s *OrderService) persistNewOrder(ctx context.Context, inputs []order.LineInput) (*order.Order, error) {
	var lastErr error

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		orderNumber, err := s.orderRepo.NextOrderNumber(ctx)
		if err != nil {
			return nil, err
		}

		o, err := order.NewOrder(orderNumber, inputs)
		if err != nil {
			return nil, err
		}

		err = s.orderRepo.Save(ctx, o)
		if err == nil {
			return o, nil
		}
		if !shared.HasCode(err, shared.CodeAlreadyExists) {
			return nil, err
		}

		lastErr = err
		s.logger.Debug("order number taken, reallocating",
			zap.String("order_number", orderNumber),
			zap.Int("attempt", attempt+1))
	}

	return nil, lastErr
}

// Confirm moves a placed order to CONFIRMED
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, order.StatusConfirmed)
}

// Ship moves a confirmed order to SHIPPED
func (s *OrderService) Ship(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, order.StatusShipped)
}

// transition applies a forward status change under the order lock
func (s *OrderService) transition(ctx context.Context, id uuid.UUID, target order.Status) (*OrderResponse, error) {
	if err := s.orderLocks.Acquire(ctx, id); err != nil {
		return nil, err
	}
	defer s.orderLocks.Release(id)

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishOrderEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels a placed or confirmed order and restores its reserved
// stock. Restoration is best effort per line: a line whose product can no
// longer accept stock yields a warning, not a failed cancellation.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.orderLocks.Acquire(ctx, id); err != nil {
		return nil, err
	}
	defer s.orderLocks.Release(id)

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	warnings := s.restoreStock(ctx, o)
	s.publishOrderEvents(ctx, o)

	response := ToOrderResponse(o)
	response.RestockWarnings = warnings
	return &response, nil
}

// MarkReturned records the return of a shipped order and restores its
// stock, best effort per line
func (s *OrderService) MarkReturned(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	if err := s.orderLocks.Acquire(ctx, id); err != nil {
		return nil, err
	}
	defer s.orderLocks.Release(id)

	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(order.StatusReturned); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	warnings := s.restoreStock(ctx, o)
	s.publishOrderEvents(ctx, o)

	response := ToOrderResponse(o)
	response.RestockWarnings = warnings
	return &response, nil
}

// Get returns an order by ID
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber returns an order by its human-readable number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List returns a paginated order list
func (s *OrderService) List(ctx context.Context, filter shared.Filter) ([]OrderResponse, error) {
	items, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(items), nil
}

// ListByStatus returns orders in the given status
func (s *OrderService) ListByStatus(ctx context.Context, status order.Status, filter shared.Filter) ([]OrderResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Unknown order status %q", status))
	}
	items, err := s.orderRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(items), nil
}

// restoreStock returns each line's quantity to the catalog after a
// cancellation or return. Failures are collected as warnings; the order's
// state change has already been committed and is never rolled back.
func (s *OrderService) restoreStock(ctx context.Context, o *order.Order) []string {
	var warnings []string

	for _, line := range o.Lines {
		if err := s.restoreLine(ctx, o, line); err != nil {
			warning := fmt.Sprintf("stock for product %s not restored: %s", line.ProductSKU, err.Error())
			warnings = append(warnings, warning)
			s.logger.Warn("stock restoration failed",
				zap.String("order_number", o.OrderNumber),
				zap.String("product_sku", line.ProductSKU),
				zap.Int64("quantity", line.Quantity),
				zap.Error(err))
			s.publish(ctx, order.NewStockRestoreFailedEvent(o, line.ProductID, line.Quantity, err.Error()))
			continue
		}
		s.publish(ctx, order.NewStockRestoredEvent(o, line.ProductID, line.Quantity))
	}

	return warnings
}

func (s *OrderService) restoreLine(ctx context.Context, o *order.Order, line order.Line) error {
	if err := s.productLocks.Acquire(ctx, line.ProductID); err != nil {
		return err
	}
	defer s.productLocks.Release(line.ProductID)

	product, err := s.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return err
	}

	if err := product.AdjustStock(line.Quantity); err != nil {
		return err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return err
	}

	s.publishProductEvents(ctx, product)
	return nil
}

func (s *OrderService) publishOrderEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		o.ClearDomainEvents()
		return
	}
	for _, event := range o.GetDomainEvents() {
		s.publish(ctx, event)
	}
	o.ClearDomainEvents()
}

func (s *OrderService) publishProductEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		product.ClearDomainEvents()
		return
	}
	for _, event := range product.GetDomainEvents() {
		s.publish(ctx, event)
	}
	product.ClearDomainEvents()
}

// publish publishes one event, best effort
func (s *OrderService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}
