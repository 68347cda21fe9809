package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
)

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByID finds a quote by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)

	// FindByCode finds a quote by its unique code
	FindByCode(ctx context.Context, code string) (*Quote, error)

	// FindAll finds all quotes with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)

	// Count counts quotes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a quote code is already taken, excluding the
	// given quote ID (pass uuid.Nil on create)
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)

	// GenerateCode generates the next unique quote code
	GenerateCode(ctx context.Context) (string, error)

	// Save creates or updates a quote and its items in one transaction
	Save(ctx context.Context, quote *Quote) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, quote *Quote) error

	// Delete deletes a quote, cascading its line items
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds all orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByLinkedQuote finds all orders referencing the given quote
	FindByLinkedQuote(ctx context.Context, quoteID uuid.UUID) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an order and its items in one transaction
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// Delete deletes an order, cascading its line items
	Delete(ctx context.Context, id uuid.UUID) error
}
