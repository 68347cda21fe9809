package sales

import (
	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeQuote = "Quote"

// Event type constants
const (
	EventTypeQuoteCreated   = "QuoteCreated"
	EventTypeQuoteConfirmed = "QuoteConfirmed"
	EventTypeQuoteRestored  = "QuoteRestored"
)

// QuoteCreatedEvent is raised when a new quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID    uuid.UUID `json:"quote_id"`
	Code       string    `json:"code"`
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(quote *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, quote.ID),
		QuoteID:         quote.ID,
		Code:            quote.Code,
		ClientID:        quote.ClientID,
		ClientName:      quote.ClientName,
	}
}

// EventType returns the event type name
func (e *QuoteCreatedEvent) EventType() string {
	return EventTypeQuoteCreated
}

// QuoteConfirmedEvent is raised when a quote transitions to CONFIRMED
type QuoteConfirmedEvent struct {
	shared.BaseDomainEvent
	QuoteID    uuid.UUID       `json:"quote_id"`
	Code       string          `json:"code"`
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	Total      decimal.Decimal `json:"total"`
}

// NewQuoteConfirmedEvent creates a new QuoteConfirmedEvent
func NewQuoteConfirmedEvent(quote *Quote) *QuoteConfirmedEvent {
	return &QuoteConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConfirmed, AggregateTypeQuote, quote.ID),
		QuoteID:         quote.ID,
		Code:            quote.Code,
		ClientID:        quote.ClientID,
		ClientName:      quote.ClientName,
		Total:           quote.Total,
	}
}

// EventType returns the event type name
func (e *QuoteConfirmedEvent) EventType() string {
	return EventTypeQuoteConfirmed
}

// QuoteRestoredEvent is raised when a confirmed quote reverts to QUOTED
type QuoteRestoredEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID `json:"quote_id"`
	Code    string    `json:"code"`
}

// NewQuoteRestoredEvent creates a new QuoteRestoredEvent
func NewQuoteRestoredEvent(quote *Quote) *QuoteRestoredEvent {
	return &QuoteRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRestored, AggregateTypeQuote, quote.ID),
		QuoteID:         quote.ID,
		Code:            quote.Code,
	}
}

// EventType returns the event type name
func (e *QuoteRestoredEvent) EventType() string {
	return EventTypeQuoteRestored
}
