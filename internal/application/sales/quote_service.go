package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteService handles quote business operations
type QuoteService struct {
	quoteRepo      sales.QuoteRepository
	orderRepo      sales.OrderRepository
	resolver       *SnapshotResolver
	invalidation   InvalidationSink
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo sales.QuoteRepository,
	orderRepo sales.OrderRepository,
	resolver *SnapshotResolver,
	invalidation InvalidationSink,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		orderRepo:    orderRepo,
		resolver:     resolver,
		invalidation: invalidation,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new quote. The quote code is generated when absent and
// collision-checked when supplied.
func (s *QuoteService) Create(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	code := req.Code
	if code == "" {
		generated, err := s.quoteRepo.GenerateCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		taken, err := s.quoteRepo.ExistsByCode(ctx, code, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("DUPLICATE_CODE", "Quote code is already in use: "+code)
		}
	}

	discount, err := documentDiscountPercent(req.DocumentDiscount)
	if err != nil {
		return nil, err
	}

	quote, err := sales.NewQuote(code, req.ClientID, req.ClientName, req.PaymentTerms, discount, req.ExpirationDate, req.Notes)
	if err != nil {
		return nil, err
	}

	items, err := s.resolver.ResolveForQuote(ctx, req.Items, nil)
	if err != nil {
		return nil, err
	}
	if err := quote.ReplaceItems(items); err != nil {
		return nil, err
	}

	totals := sales.ComputeTotals(quote.Items, discount)
	if !totals.IsPayable() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Quote total must be positive")
	}
	quote.ApplyTotals(totals)

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	s.invalidate(ctx, NamespaceQuotes)
	s.publishEvents(ctx, quote)

	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByCode retrieves a quote by its unique code
func (s *QuoteService) GetByCode(ctx context.Context, code string) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, filter QuoteListFilter) (*shared.Paginated[QuoteResponse], error) {
	repoFilter := filter.Filter()

	quotes, err := s.quoteRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.quoteRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}

	result := shared.NewPaginated(responses, total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// Update applies a partial update to a quote. Confirmed quotes accept only
// status updates; reverting to QUOTED is guarded by the linked-order rules.
// Totals are recomputed only when items or the document discount changed.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var target *sales.QuoteStatus
	if req.Status != nil {
		st := sales.QuoteStatus(*req.Status)
		if !st.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown quote status: "+*req.Status)
		}
		target = &st
	}

	statusOnly := req.IsStatusOnly()

	if quote.IsConfirmed() && !statusOnly {
		return nil, shared.NewDomainError("DOCUMENT_LOCKED", "A confirmed quote is read-only; only status updates are allowed")
	}

	var restoreDrafts []uuid.UUID
	if target != nil && *target == sales.QuoteStatusQuoted {
		if quote.IsConfirmed() {
			drafts, err := s.restore(ctx, quote, req.IsExpired)
			if err != nil {
				return nil, err
			}
			restoreDrafts = drafts
		} else {
			// Re-asserting QUOTED on an unconfirmed quote is a plain revert,
			// forbidden as soon as any order references the quote.
			linked, err := s.orderRepo.FindByLinkedQuote(ctx, quote.ID)
			if err != nil {
				return nil, err
			}
			if len(linked) > 0 {
				return nil, shared.NewDomainError("INVALID_STATE", "Cannot revert a quote that has linked orders")
			}
		}
	}

	itemsChanged := req.Items != nil
	discountChanged := req.DocumentDiscount != nil && !req.DocumentDiscount.Equal(quote.DocumentDiscount)

	if !statusOnly {
		if req.Code != nil && *req.Code != quote.Code {
			taken, err := s.quoteRepo.ExistsByCode(ctx, *req.Code, quote.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, shared.NewDomainError("DUPLICATE_CODE", "Quote code is already in use: "+*req.Code)
			}
			if err := quote.ChangeCode(*req.Code); err != nil {
				return nil, err
			}
		}

		clientID := quote.ClientID
		if req.ClientID != nil {
			clientID = *req.ClientID
		}
		clientName := quote.ClientName
		if req.ClientName != nil {
			clientName = *req.ClientName
		}
		paymentTerms := quote.PaymentTerms
		if req.PaymentTerms != nil {
			paymentTerms = *req.PaymentTerms
		}
		notes := quote.Notes
		if req.Notes != nil {
			notes = *req.Notes
		}
		expirationDate := quote.ExpirationDate
		if req.ClearExpirationDate {
			expirationDate = nil
		} else if req.ExpirationDate != nil {
			expirationDate = req.ExpirationDate
		}
		discountRate := quote.DocumentDiscount
		if req.DocumentDiscount != nil {
			discountRate = *req.DocumentDiscount
		}
		discount, err := valueobject.NewPercent(discountRate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
		}

		if err := quote.UpdateTerms(clientID, clientName, paymentTerms, discount, expirationDate, notes); err != nil {
			return nil, err
		}

		if itemsChanged {
			items, err := s.resolver.ResolveForQuote(ctx, req.Items, quote.Items)
			if err != nil {
				return nil, err
			}
			if err := quote.ReplaceItems(items); err != nil {
				return nil, err
			}
		}
	}

	if itemsChanged || discountChanged {
		discount, err := valueobject.NewPercent(quote.DocumentDiscount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
		}
		totals := sales.ComputeTotals(quote.Items, discount)
		if !totals.IsPayable() {
			return nil, shared.NewDomainError("INVALID_TOTAL", "Quote total must be positive")
		}
		quote.ApplyTotals(totals)
	}

	if target != nil && *target == sales.QuoteStatusConfirmed && !quote.IsConfirmed() {
		if err := quote.Confirm(); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}

	// Draft cleanup waits for the save: a version conflict above must not
	// cost the caller their speculative orders.
	for _, orderID := range restoreDrafts {
		if err := s.orderRepo.Delete(ctx, orderID); err != nil {
			s.logger.Warn("failed to delete draft order linked to restored quote",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
		}
	}
	if len(restoreDrafts) > 0 {
		s.invalidate(ctx, NamespaceOrders)
	}

	s.invalidate(ctx, NamespaceQuotes)
	s.publishEvents(ctx, quote)

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Delete deletes a quote and its line items. Confirmed quotes cannot be deleted.
func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !quote.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a confirmed quote")
	}

	if err := s.quoteRepo.Delete(ctx, quote.ID); err != nil {
		return err
	}

	s.invalidate(ctx, NamespaceQuotes)
	return nil
}

// restore validates the confirmed-to-quoted transition and applies it to the
// aggregate: the caller must have explicitly cleared the expired flag and no
// non-draft linked order may exist. Draft linked orders are speculative
// downstream work; their IDs are returned so the caller can cascade-delete
// them once the quote save has succeeded.
func (s *QuoteService) restore(ctx context.Context, quote *sales.Quote, isExpired *bool) ([]uuid.UUID, error) {
	if isExpired == nil || *isExpired {
		return nil, shared.NewDomainError("INVALID_STATE", "Restoring a confirmed quote requires explicitly marking it as not expired")
	}

	linked, err := s.orderRepo.FindByLinkedQuote(ctx, quote.ID)
	if err != nil {
		return nil, err
	}

	blocking := make([]string, 0)
	drafts := make([]uuid.UUID, 0)
	for i := range linked {
		if linked[i].IsDraft() {
			drafts = append(drafts, linked[i].ID)
		} else {
			blocking = append(blocking, linked[i].ID.String())
		}
	}
	if len(blocking) > 0 {
		return nil, shared.NewDomainErrorWithDetails("INVALID_STATE", "Cannot restore a quote with non-draft linked orders", blocking)
	}

	if err := quote.Restore(); err != nil {
		return nil, err
	}
	return drafts, nil
}

// invalidate signals the cache namespace; a failed signal only widens the
// staleness window and never fails the mutation.
func (s *QuoteService) invalidate(ctx context.Context, namespace string) {
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

func (s *QuoteService) publishEvents(ctx context.Context, quote *sales.Quote) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range quote.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	quote.ClearDomainEvents()
}

// documentDiscountPercent validates the optional document discount, defaulting
// to zero.
func documentDiscountPercent(rate *decimal.Decimal) (valueobject.Percent, error) {
	if rate == nil {
		return valueobject.ZeroPercent(), nil
	}
	p, err := valueobject.NewPercent(*rate)
	if err != nil {
		return valueobject.Percent{}, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
	}
	return p, nil
}
