package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// OrderService handles order business operations. The draft to confirmed
// transition additionally runs the confirmation side effects: project creation
// aborts the confirmation on failure, manager notification never does.
type OrderService struct {
	orderRepo      sales.OrderRepository
	quoteRepo      sales.QuoteRepository
	resolver       *SnapshotResolver
	dispatcher     *OrderConfirmedDispatcher
	invalidation   InvalidationSink
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo sales.OrderRepository,
	quoteRepo sales.QuoteRepository,
	resolver *SnapshotResolver,
	dispatcher *OrderConfirmedDispatcher,
	invalidation InvalidationSink,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		quoteRepo:    quoteRepo,
		resolver:     resolver,
		dispatcher:   dispatcher,
		invalidation: invalidation,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new order in DRAFT status
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if req.LinkedQuoteID != nil {
		if _, err := s.quoteRepo.FindByID(ctx, *req.LinkedQuoteID); err != nil {
			return nil, err
		}
	}

	discount, err := documentDiscountPercent(req.DocumentDiscount)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewOrder(req.ClientID, req.ClientName, req.PaymentTerms, discount, req.Notes, req.LinkedQuoteID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolver.ResolveForOrder(ctx, req.Items, nil)
	if err != nil {
		return nil, err
	}
	if err := order.ReplaceItems(items); err != nil {
		return nil, err
	}

	totals := sales.ComputeTotals(order.Items, discount)
	if !totals.IsPayable() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Order total must be positive")
	}
	order.ApplyTotals(totals)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.invalidate(ctx, NamespaceOrders)
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	repoFilter := filter.Filter()

	orders, err := s.orderRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}

	result := shared.NewPaginated(responses, total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// Update applies a partial update to an order. Status-only updates are always
// accepted regardless of the current status; everything else requires DRAFT.
// Orders linked to a quote freeze all commercial fields inherited from it.
// actorID identifies the user performing the update, excluded from
// confirmation notifications.
func (s *OrderService) Update(ctx context.Context, id, actorID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var target *sales.OrderStatus
	if req.Status != nil {
		st := sales.OrderStatus(*req.Status)
		if !st.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+*req.Status)
		}
		target = &st
	}

	statusOnly := req.IsStatusOnly()

	if !statusOnly && !order.IsDraft() {
		return nil, shared.NewDomainErrorWithDetails("INVALID_STATE",
			"Only status updates are allowed for an order in status "+order.Status.String(),
			[]string{order.Status.String()})
	}

	var items []sales.LineItem
	if req.Items != nil {
		items, err = s.resolver.ResolveForOrder(ctx, req.Items, order.Items)
		if err != nil {
			return nil, err
		}
	}

	if order.IsLinked() && !statusOnly {
		violations := order.LockedFieldViolations(req.ClientID, req.ClientName, req.PaymentTerms, req.DocumentDiscount, req.Notes, items)
		if len(violations) > 0 {
			return nil, shared.NewDomainErrorWithDetails("DOCUMENT_LOCKED",
				"Order fields are locked by the linked quote", violations)
		}
	}

	itemsChanged := req.Items != nil
	discountChanged := req.DocumentDiscount != nil && !req.DocumentDiscount.Equal(order.DocumentDiscount)

	if !statusOnly {
		clientID := order.ClientID
		if req.ClientID != nil {
			clientID = *req.ClientID
		}
		clientName := order.ClientName
		if req.ClientName != nil {
			clientName = *req.ClientName
		}
		paymentTerms := order.PaymentTerms
		if req.PaymentTerms != nil {
			paymentTerms = *req.PaymentTerms
		}
		notes := order.Notes
		if req.Notes != nil {
			notes = *req.Notes
		}
		discountRate := order.DocumentDiscount
		if req.DocumentDiscount != nil {
			discountRate = *req.DocumentDiscount
		}
		discount, err := valueobject.NewPercent(discountRate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
		}

		if err := order.UpdateTerms(clientID, clientName, paymentTerms, discount, notes); err != nil {
			return nil, err
		}

		if itemsChanged {
			if err := order.ReplaceItems(items); err != nil {
				return nil, err
			}
		}
	}

	if itemsChanged || discountChanged {
		discount, err := valueobject.NewPercent(order.DocumentDiscount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
		}
		totals := sales.ComputeTotals(order.Items, discount)
		if !totals.IsPayable() {
			return nil, shared.NewDomainError("INVALID_TOTAL", "Order total must be positive")
		}
		order.ApplyTotals(totals)
	}

	confirming := false
	if target != nil {
		wasConfirmed := order.IsConfirmed()
		if err := order.ChangeStatus(*target); err != nil {
			return nil, err
		}
		confirming = !wasConfirmed && order.IsConfirmed()
	}

	var createdProjects []string
	if confirming {
		// Same unit of work as the status write: a project failure aborts the
		// confirmation before the order is persisted.
		createdProjects, err = s.dispatcher.CreateProjects(ctx, order)
		if err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.invalidate(ctx, NamespaceOrders)
	s.publishEvents(ctx, order)

	if confirming {
		s.dispatcher.NotifyManagers(ctx, order, createdProjects, actorID)
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete deletes an order and its line items. Only draft orders are eligible.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.CanDelete() {
		return shared.NewDomainErrorWithDetails("INVALID_STATE",
			"Cannot delete an order in status "+order.Status.String(),
			[]string{order.Status.String()})
	}

	if err := s.orderRepo.Delete(ctx, order.ID); err != nil {
		return err
	}

	s.invalidate(ctx, NamespaceOrders)
	return nil
}

func (s *OrderService) invalidate(ctx context.Context, namespace string) {
	if s.invalidation == nil {
		return
	}
	if err := s.invalidation.Invalidate(ctx, namespace); err != nil {
		s.logger.Warn("cache invalidation failed",
			zap.String("namespace", namespace),
			zap.Error(err),
		)
	}
}

func (s *OrderService) publishEvents(ctx context.Context, order *sales.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	order.ClearDomainEvents()
}
