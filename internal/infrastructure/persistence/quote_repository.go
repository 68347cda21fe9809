package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormQuoteRepository implements QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Quote, error) {
	var quote sales.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindByCode finds a quote by its unique code
func (r *GormQuoteRepository) FindByCode(ctx context.Context, code string) (*sales.Quote, error) {
	var quote sales.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("code = ?", code).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAll finds all quotes with filtering
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Quote, error) {
	var quotes []sales.Quote
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&sales.Quote{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Quote{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a quote code is already taken, excluding the given quote ID
func (r *GormQuoteRepository) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Quote{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateCode generates a unique quote code.
// Format: Q-YYYY-NNNNN (e.g., Q-2026-00001)
func (r *GormQuoteRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("Q-%d-", year)

	// Get the highest code for this year
	var lastQuote sales.Quote
	err := r.db.WithContext(ctx).
		Model(&sales.Quote{}).
		Where("code LIKE ?", prefix+"%").
		Order("code DESC").
		First(&lastQuote).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastQuote.Code != "" {
		parts := strings.Split(lastQuote.Code, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	code := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness, stepping past any collision
	exists, err := r.ExistsByCode(ctx, code, uuid.Nil)
	if err != nil {
		return "", err
	}
	for i := 0; exists && i < 100; i++ {
		nextNum++
		code = fmt.Sprintf("%s%05d", prefix, nextNum)
		exists, err = r.ExistsByCode(ctx, code, uuid.Nil)
		if err != nil {
			return "", err
		}
	}

	return code, nil
}

// Save creates or updates a quote and its items in one transaction
func (r *GormQuoteRepository) Save(ctx context.Context, quote *sales.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(quote).Error; err != nil {
			return err
		}
		return saveLineItems(tx, quote.ID, quote.Items)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, quote *sales.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&sales.Quote{}).
			Where("id = ?", quote.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != quote.Version {
			return shared.ErrConcurrencyConflict
		}

		quote.Version++
		quote.UpdatedAt = time.Now()

		result := tx.Model(&sales.Quote{}).
			Where("id = ? AND version = ?", quote.ID, currentVersion).
			Updates(map[string]interface{}{
				"code":              quote.Code,
				"client_id":         quote.ClientID,
				"client_name":       quote.ClientName,
				"payment_terms":     quote.PaymentTerms,
				"document_discount": quote.DocumentDiscount,
				"status":            quote.Status,
				"expiration_date":   quote.ExpirationDate,
				"notes":             quote.Notes,
				"subtotal":          quote.Subtotal,
				"discount_amount":   quote.DiscountAmount,
				"taxable_amount":    quote.TaxableAmount,
				"total_tax":         quote.TotalTax,
				"total":             quote.Total,
				"confirmed_at":      quote.ConfirmedAt,
				"version":           quote.Version,
				"updated_at":        quote.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return saveLineItems(tx, quote.ID, quote.Items)
	})
}

// Delete deletes a quote, cascading its line items
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&sales.LineItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&sales.Quote{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, QuoteSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR client_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// saveLineItems replaces the persisted line items of a document with the
// given set: items no longer present are deleted, the rest upserted.
func saveLineItems(tx *gorm.DB, documentID uuid.UUID, items []sales.LineItem) error {
	currentItemIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("document_id = ? AND id NOT IN ?", documentID, currentItemIDs).
			Delete(&sales.LineItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("document_id = ?", documentID).
			Delete(&sales.LineItem{}).Error; err != nil {
			return err
		}
	}

	for i := range items {
		items[i].DocumentID = documentID
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ sales.QuoteRepository = (*GormQuoteRepository)(nil)
