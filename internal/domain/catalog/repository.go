package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs batch-fetches products for the given IDs in a single query.
	// Unknown IDs are simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// SpecialPriceRepository defines the interface for special-price persistence
type SpecialPriceRepository interface {
	// FindByID finds a special-price agreement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SpecialPrice, error)

	// FindByIDs batch-fetches agreements for the given IDs in a single query.
	// Unknown IDs are simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]SpecialPrice, error)

	// Save creates or updates a special-price agreement
	Save(ctx context.Context, price *SpecialPrice) error
}
