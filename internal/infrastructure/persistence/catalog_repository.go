package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/catalog"
	"github.com/proserv/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs batch-fetches products for the given IDs in a single query
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// GormSpecialPriceRepository implements SpecialPriceRepository using GORM
type GormSpecialPriceRepository struct {
	db *gorm.DB
}

// NewGormSpecialPriceRepository creates a new GormSpecialPriceRepository
func NewGormSpecialPriceRepository(db *gorm.DB) *GormSpecialPriceRepository {
	return &GormSpecialPriceRepository{db: db}
}

// FindByID finds a special-price agreement by its ID
func (r *GormSpecialPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SpecialPrice, error) {
	var price catalog.SpecialPrice
	if err := r.db.WithContext(ctx).First(&price, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindByIDs batch-fetches agreements for the given IDs in a single query
func (r *GormSpecialPriceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.SpecialPrice, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var prices []catalog.SpecialPrice
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Save creates or updates a special-price agreement
func (r *GormSpecialPriceRepository) Save(ctx context.Context, price *catalog.SpecialPrice) error {
	return r.db.WithContext(ctx).Save(price).Error
}

// Ensure the repositories implement their interfaces
var (
	_ catalog.ProductRepository      = (*GormProductRepository)(nil)
	_ catalog.SpecialPriceRepository = (*GormSpecialPriceRepository)(nil)
)
