package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusQuoted    QuoteStatus = "QUOTED"
	QuoteStatusConfirmed QuoteStatus = "CONFIRMED"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusQuoted, QuoteStatusConfirmed:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// Quote represents a quote aggregate root. A quote carries the full commercial
// terms of a prospective deal; once confirmed it becomes read-only except for
// explicitly permitted status transitions.
type Quote struct {
	shared.BaseAggregateRoot
	Code             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientName       string          `gorm:"type:varchar(200);not null"`
	PaymentTerms     string          `gorm:"type:varchar(100)"`
	DocumentDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status           QuoteStatus     `gorm:"type:varchar(20);not null;default:'QUOTED'"`
	ExpirationDate   *time.Time
	Notes            string     `gorm:"type:text"`
	Items            []LineItem `gorm:"foreignKey:DocumentID"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxableAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ConfirmedAt      *time.Time
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new quote in QUOTED status
func NewQuote(code string, clientID uuid.UUID, clientName, paymentTerms string, documentDiscount valueobject.Percent, expirationDate *time.Time, notes string) (*Quote, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Quote code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Quote code cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}

	quote := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		ClientID:          clientID,
		ClientName:        clientName,
		PaymentTerms:      paymentTerms,
		DocumentDiscount:  documentDiscount.Rate(),
		Status:            QuoteStatusQuoted,
		ExpirationDate:    expirationDate,
		Notes:             notes,
		Items:             make([]LineItem, 0),
	}

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))

	return quote, nil
}

// CanModify returns true if the quote's commercial fields can be edited
func (q *Quote) CanModify() bool {
	return q.Status == QuoteStatusQuoted
}

// CanDelete returns true if the quote may be deleted
func (q *Quote) CanDelete() bool {
	return q.Status != QuoteStatusConfirmed
}

// IsConfirmed returns true if the quote is confirmed
func (q *Quote) IsConfirmed() bool {
	return q.Status == QuoteStatusConfirmed
}

// ReplaceItems atomically replaces the quote's line items.
// A quote must always have at least one item.
func (q *Quote) ReplaceItems(items []LineItem) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items of a confirmed quote")
	}
	if len(items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "A quote must have at least one line item")
	}

	for idx := range items {
		items[idx].DocumentID = q.ID
	}
	q.Items = items
	q.Touch()

	return nil
}

// ChangeCode changes the quote's human-readable code while in QUOTED status.
// Uniqueness is checked by the caller against the repository.
func (q *Quote) ChangeCode(code string) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a confirmed quote")
	}
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Quote code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Quote code cannot exceed 50 characters")
	}

	q.Code = code
	q.Touch()

	return nil
}

// UpdateTerms updates the quote's commercial terms while in QUOTED status
func (q *Quote) UpdateTerms(clientID uuid.UUID, clientName, paymentTerms string, documentDiscount valueobject.Percent, expirationDate *time.Time, notes string) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a confirmed quote")
	}
	if clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}

	q.ClientID = clientID
	q.ClientName = clientName
	q.PaymentTerms = paymentTerms
	q.DocumentDiscount = documentDiscount.Rate()
	q.ExpirationDate = expirationDate
	q.Notes = notes
	q.Touch()

	return nil
}

// ApplyTotals stores the computed totals onto the quote
func (q *Quote) ApplyTotals(t Totals) {
	q.Subtotal = t.Subtotal
	q.DiscountAmount = t.DiscountAmount
	q.TaxableAmount = t.TaxableAmount
	q.TotalTax = t.TotalTax
	q.Total = t.Total
	q.Touch()
}

// Confirm transitions the quote from QUOTED to CONFIRMED.
// Once confirmed, all commercial fields become read-only.
func (q *Quote) Confirm() error {
	if q.Status == QuoteStatusConfirmed {
		return nil
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm a quote without items")
	}

	now := time.Now()
	q.Status = QuoteStatusConfirmed
	q.ConfirmedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteConfirmedEvent(q))

	return nil
}

// Restore reverts a confirmed quote back to QUOTED status. The caller is
// responsible for verifying that no non-draft linked orders exist and for
// cascade-deleting draft ones before invoking this transition.
func (q *Quote) Restore() error {
	if q.Status != QuoteStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only a confirmed quote can be restored")
	}

	q.Status = QuoteStatusQuoted
	q.ConfirmedAt = nil
	q.Touch()

	q.AddDomainEvent(NewQuoteRestoredEvent(q))

	return nil
}

// IsExpired reports whether the quote is expired at the given instant.
// A confirmed quote is never expired. A quote without an expiration date is
// never expired. Otherwise the quote expires at the end of the expiration
// date's calendar day in UTC; the time-of-day stored on the expiration date
// itself is ignored.
func (q *Quote) IsExpired(now time.Time) bool {
	if q.Status == QuoteStatusConfirmed {
		return false
	}
	if q.ExpirationDate == nil {
		return false
	}

	d := q.ExpirationDate.UTC()
	endOfDay := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999_000_000, time.UTC)
	return now.UTC().After(endOfDay)
}
