package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing || target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// LockedField names a commercial field that becomes immutable once an order
// is linked to a quote
type LockedField = string

const (
	LockedFieldClientID         LockedField = "clientId"
	LockedFieldClientName       LockedField = "clientName"
	LockedFieldPaymentTerms     LockedField = "paymentTerms"
	LockedFieldDocumentDiscount LockedField = "documentDiscount"
	LockedFieldNotes            LockedField = "notes"
	LockedFieldItems            LockedField = "items"
)

// Order represents an order aggregate root. Orders move through a one-way
// state machine starting in DRAFT; once linked to a quote, the commercial
// terms inherited from that quote are frozen.
type Order struct {
	shared.BaseAggregateRoot
	ClientID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientName       string          `gorm:"type:varchar(200);not null"`
	PaymentTerms     string          `gorm:"type:varchar(100)"`
	DocumentDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status           OrderStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes            string          `gorm:"type:text"`
	LinkedQuoteID    *uuid.UUID      `gorm:"type:uuid;index"`
	Items            []LineItem      `gorm:"foreignKey:DocumentID"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxableAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ConfirmedAt      *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in DRAFT status
func NewOrder(clientID uuid.UUID, clientName, paymentTerms string, documentDiscount valueobject.Percent, notes string, linkedQuoteID *uuid.UUID) (*Order, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		PaymentTerms:      paymentTerms,
		DocumentDiscount:  documentDiscount.Rate(),
		Status:            OrderStatusDraft,
		Notes:             notes,
		LinkedQuoteID:     linkedQuoteID,
		Items:             make([]LineItem, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// IsDraft returns true if the order is in draft status
func (o *Order) IsDraft() bool {
	return o.Status == OrderStatusDraft
}

// IsConfirmed returns true if the order is confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// IsLinked returns true if the order was derived from a quote
func (o *Order) IsLinked() bool {
	return o.LinkedQuoteID != nil
}

// CanModify returns true if non-status fields may be edited
func (o *Order) CanModify() bool {
	return o.IsDraft()
}

// CanDelete returns true if the order may be deleted
func (o *Order) CanDelete() bool {
	return o.IsDraft()
}

// ReplaceItems atomically replaces the order's line items.
// An order must always have at least one item.
func (o *Order) ReplaceItems(items []LineItem) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items of a non-draft order")
	}
	if len(items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "An order must have at least one line item")
	}

	for idx := range items {
		items[idx].DocumentID = o.ID
	}
	o.Items = items
	o.Touch()

	return nil
}

// UpdateTerms updates the order's commercial terms while in DRAFT status
func (o *Order) UpdateTerms(clientID uuid.UUID, clientName, paymentTerms string, documentDiscount valueobject.Percent, notes string) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a non-draft order")
	}
	if clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}

	o.ClientID = clientID
	o.ClientName = clientName
	o.PaymentTerms = paymentTerms
	o.DocumentDiscount = documentDiscount.Rate()
	o.Notes = notes
	o.Touch()

	return nil
}

// ApplyTotals stores the computed totals onto the order
func (o *Order) ApplyTotals(t Totals) {
	o.Subtotal = t.Subtotal
	o.DiscountAmount = t.DiscountAmount
	o.TaxableAmount = t.TaxableAmount
	o.TotalTax = t.TotalTax
	o.Total = t.Total
	o.Touch()
}

// ChangeStatus moves the order to the target status. Transitioning to the
// current status is a permitted no-op. The DRAFT to CONFIRMED transition
// emits OrderConfirmedEvent exactly once.
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+target.String())
	}
	if target == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot transition order from "+o.Status.String()+" to "+target.String())
	}

	now := time.Now()
	previous := o.Status
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
		if previous == OrderStatusDraft {
			o.AddDomainEvent(NewOrderConfirmedEvent(o))
		}
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}

	return nil
}

// LockedFieldViolations compares the proposed commercial values against the
// persisted ones and returns the names of locked fields that would change.
// Only meaningful for orders linked to a quote.
func (o *Order) LockedFieldViolations(clientID *uuid.UUID, clientName, paymentTerms *string, documentDiscount *decimal.Decimal, notes *string, items []LineItem) []LockedField {
	violations := make([]LockedField, 0)

	if clientID != nil && *clientID != o.ClientID {
		violations = append(violations, LockedFieldClientID)
	}
	if clientName != nil && *clientName != o.ClientName {
		violations = append(violations, LockedFieldClientName)
	}
	if paymentTerms != nil && *paymentTerms != o.PaymentTerms {
		violations = append(violations, LockedFieldPaymentTerms)
	}
	if documentDiscount != nil && !documentDiscount.Equal(o.DocumentDiscount) {
		violations = append(violations, LockedFieldDocumentDiscount)
	}
	if notes != nil && *notes != o.Notes {
		violations = append(violations, LockedFieldNotes)
	}
	if items != nil && !ItemSetsEqual(items, o.Items) {
		violations = append(violations, LockedFieldItems)
	}

	return violations
}
