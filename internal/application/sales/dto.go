package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ==================== Line Item DTOs ====================

// LineItemInput represents a line item in create/update requests.
// ID is set when the caller is editing an existing item; the resolver uses it
// to decide whether the frozen snapshot can be carried forward.
type LineItemInput struct {
	ID           *uuid.UUID       `json:"id"`
	ProductID    uuid.UUID        `json:"product_id" binding:"required"`
	ProductName  string           `json:"product_name" binding:"required,min=1,max=200"`
	SpecialBidID *uuid.UUID       `json:"special_bid_id"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice    decimal.Decimal  `json:"unit_price" binding:"required"`
	LineDiscount *decimal.Decimal `json:"line_discount"`
	Note         string           `json:"note"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID                      uuid.UUID        `json:"id"`
	ProductID               uuid.UUID        `json:"product_id"`
	ProductName             string           `json:"product_name"`
	SpecialBidID            *uuid.UUID       `json:"special_bid_id,omitempty"`
	Quantity                decimal.Decimal  `json:"quantity"`
	UnitPrice               decimal.Decimal  `json:"unit_price"`
	LineDiscount            decimal.Decimal  `json:"line_discount"`
	Note                    string           `json:"note,omitempty"`
	ProductCost             decimal.Decimal  `json:"product_cost"`
	ProductTaxRate          decimal.Decimal  `json:"product_tax_rate"`
	ProductMolPercentage    decimal.Decimal  `json:"product_mol_percentage"`
	SpecialBidUnitPrice     *decimal.Decimal `json:"special_bid_unit_price,omitempty"`
	SpecialBidMolPercentage *decimal.Decimal `json:"special_bid_mol_percentage,omitempty"`
}

// ==================== Quote DTOs ====================

// CreateQuoteRequest represents a request to create a quote
type CreateQuoteRequest struct {
	Code             string           `json:"code" binding:"omitempty,max=50"`
	ClientID         uuid.UUID        `json:"client_id" binding:"required"`
	ClientName       string           `json:"client_name" binding:"required,min=1,max=200"`
	PaymentTerms     string           `json:"payment_terms" binding:"max=100"`
	DocumentDiscount *decimal.Decimal `json:"document_discount"`
	ExpirationDate   *time.Time       `json:"expiration_date"`
	Notes            string           `json:"notes"`
	Items            []LineItemInput  `json:"items" binding:"required,min=1,dive"`
}

// UpdateQuoteRequest represents a partial update to a quote. Absent fields are
// left unchanged; ClearExpirationDate removes an existing expiration date,
// which a nil ExpirationDate alone cannot express. Status carries lifecycle
// transitions; IsExpired is only honored on the confirmed-to-quoted restore
// path and is otherwise ignored.
type UpdateQuoteRequest struct {
	Code                *string          `json:"code" binding:"omitempty,max=50"`
	ClientID            *uuid.UUID       `json:"client_id"`
	ClientName          *string          `json:"client_name" binding:"omitempty,min=1,max=200"`
	PaymentTerms        *string          `json:"payment_terms" binding:"omitempty,max=100"`
	DocumentDiscount    *decimal.Decimal `json:"document_discount"`
	ExpirationDate      *time.Time       `json:"expiration_date"`
	ClearExpirationDate bool             `json:"clear_expiration_date,omitempty"`
	Notes               *string          `json:"notes"`
	Items               []LineItemInput  `json:"items" binding:"omitempty,min=1,dive"`
	Status              *string          `json:"status" binding:"omitempty,oneof=QUOTED CONFIRMED"`
	IsExpired           *bool            `json:"is_expired"`
}

// IsStatusOnly reports whether the request changes nothing but the lifecycle
// status. IsExpired does not count: it only accompanies the restore transition.
func (r UpdateQuoteRequest) IsStatusOnly() bool {
	return r.Status != nil &&
		r.Code == nil && r.ClientID == nil && r.ClientName == nil &&
		r.PaymentTerms == nil && r.DocumentDiscount == nil &&
		r.ExpirationDate == nil && !r.ClearExpirationDate &&
		r.Notes == nil && r.Items == nil
}

// QuoteListFilter represents filter options for the quote list
type QuoteListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Status   *string    `form:"status" binding:"omitempty,oneof=QUOTED CONFIRMED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the HTTP filter into the repository filter with defaults
func (f QuoteListFilter) Filter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	if f.ClientID != nil {
		filter.Filters["client_id"] = *f.ClientID
	}
	if f.Status != nil {
		filter.Filters["status"] = *f.Status
	}
	return filter
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID               uuid.UUID          `json:"id"`
	Code             string             `json:"code"`
	ClientID         uuid.UUID          `json:"client_id"`
	ClientName       string             `json:"client_name"`
	PaymentTerms     string             `json:"payment_terms,omitempty"`
	DocumentDiscount decimal.Decimal    `json:"document_discount"`
	Status           string             `json:"status"`
	ExpirationDate   *time.Time         `json:"expiration_date,omitempty"`
	IsExpired        bool               `json:"is_expired"`
	Notes            string             `json:"notes,omitempty"`
	Items            []LineItemResponse `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	DiscountAmount   decimal.Decimal    `json:"discount_amount"`
	TaxableAmount    decimal.Decimal    `json:"taxable_amount"`
	TotalTax         decimal.Decimal    `json:"total_tax"`
	Total            decimal.Decimal    `json:"total"`
	ConfirmedAt      *time.Time         `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Version          int                `json:"version"`
}

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	ClientID         uuid.UUID        `json:"client_id" binding:"required"`
	ClientName       string           `json:"client_name" binding:"required,min=1,max=200"`
	PaymentTerms     string           `json:"payment_terms" binding:"max=100"`
	DocumentDiscount *decimal.Decimal `json:"document_discount"`
	Notes            string           `json:"notes"`
	LinkedQuoteID    *uuid.UUID       `json:"linked_quote_id"`
	Items            []LineItemInput  `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents a partial update to an order. Absent fields
// are left unchanged.
type UpdateOrderRequest struct {
	ClientID         *uuid.UUID       `json:"client_id"`
	ClientName       *string          `json:"client_name" binding:"omitempty,min=1,max=200"`
	PaymentTerms     *string          `json:"payment_terms" binding:"omitempty,max=100"`
	DocumentDiscount *decimal.Decimal `json:"document_discount"`
	Notes            *string          `json:"notes"`
	Items            []LineItemInput  `json:"items" binding:"omitempty,min=1,dive"`
	Status           *string          `json:"status" binding:"omitempty,oneof=DRAFT CONFIRMED PROCESSING COMPLETED CANCELLED"`
}

// IsStatusOnly reports whether the request changes nothing but the status
func (r UpdateOrderRequest) IsStatusOnly() bool {
	return r.Status != nil &&
		r.ClientID == nil && r.ClientName == nil && r.PaymentTerms == nil &&
		r.DocumentDiscount == nil && r.Notes == nil && r.Items == nil
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search        string     `form:"search"`
	ClientID      *uuid.UUID `form:"client_id"`
	Status        *string    `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED PROCESSING COMPLETED CANCELLED"`
	LinkedQuoteID *uuid.UUID `form:"linked_quote_id"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the HTTP filter into the repository filter with defaults
func (f OrderListFilter) Filter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	if f.ClientID != nil {
		filter.Filters["client_id"] = *f.ClientID
	}
	if f.Status != nil {
		filter.Filters["status"] = *f.Status
	}
	if f.LinkedQuoteID != nil {
		filter.Filters["linked_quote_id"] = *f.LinkedQuoteID
	}
	return filter
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID               uuid.UUID          `json:"id"`
	ClientID         uuid.UUID          `json:"client_id"`
	ClientName       string             `json:"client_name"`
	PaymentTerms     string             `json:"payment_terms,omitempty"`
	DocumentDiscount decimal.Decimal    `json:"document_discount"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes,omitempty"`
	LinkedQuoteID    *uuid.UUID         `json:"linked_quote_id,omitempty"`
	Items            []LineItemResponse `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	DiscountAmount   decimal.Decimal    `json:"discount_amount"`
	TaxableAmount    decimal.Decimal    `json:"taxable_amount"`
	TotalTax         decimal.Decimal    `json:"total_tax"`
	Total            decimal.Decimal    `json:"total"`
	ConfirmedAt      *time.Time         `json:"confirmed_at,omitempty"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Version          int                `json:"version"`
}

// ==================== Mappers ====================

// ToLineItemResponse converts a line item to its response representation
func ToLineItemResponse(item *sales.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:                      item.ID,
		ProductID:               item.ProductID,
		ProductName:             item.ProductName,
		SpecialBidID:            item.SpecialBidID,
		Quantity:                item.Quantity,
		UnitPrice:               item.UnitPrice,
		LineDiscount:            item.LineDiscount,
		Note:                    item.Note,
		ProductCost:             item.ProductCost,
		ProductTaxRate:          item.ProductTaxRate,
		ProductMolPercentage:    item.ProductMolPercentage,
		SpecialBidUnitPrice:     item.SpecialBidUnitPrice,
		SpecialBidMolPercentage: item.SpecialBidMolPercentage,
	}
}

func toLineItemResponses(items []sales.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i := range items {
		out[i] = ToLineItemResponse(&items[i])
	}
	return out
}

// ToQuoteResponse converts a quote to its response representation
func ToQuoteResponse(quote *sales.Quote) QuoteResponse {
	return QuoteResponse{
		ID:               quote.ID,
		Code:             quote.Code,
		ClientID:         quote.ClientID,
		ClientName:       quote.ClientName,
		PaymentTerms:     quote.PaymentTerms,
		DocumentDiscount: quote.DocumentDiscount,
		Status:           quote.Status.String(),
		ExpirationDate:   quote.ExpirationDate,
		IsExpired:        quote.IsExpired(time.Now()),
		Notes:            quote.Notes,
		Items:            toLineItemResponses(quote.Items),
		Subtotal:         quote.Subtotal,
		DiscountAmount:   quote.DiscountAmount,
		TaxableAmount:    quote.TaxableAmount,
		TotalTax:         quote.TotalTax,
		Total:            quote.Total,
		ConfirmedAt:      quote.ConfirmedAt,
		CreatedAt:        quote.CreatedAt,
		UpdatedAt:        quote.UpdatedAt,
		Version:          quote.Version,
	}
}

// ToOrderResponse converts an order to its response representation
func ToOrderResponse(order *sales.Order) OrderResponse {
	return OrderResponse{
		ID:               order.ID,
		ClientID:         order.ClientID,
		ClientName:       order.ClientName,
		PaymentTerms:     order.PaymentTerms,
		DocumentDiscount: order.DocumentDiscount,
		Status:           order.Status.String(),
		Notes:            order.Notes,
		LinkedQuoteID:    order.LinkedQuoteID,
		Items:            toLineItemResponses(order.Items),
		Subtotal:         order.Subtotal,
		DiscountAmount:   order.DiscountAmount,
		TaxableAmount:    order.TaxableAmount,
		TotalTax:         order.TotalTax,
		Total:            order.Total,
		ConfirmedAt:      order.ConfirmedAt,
		CompletedAt:      order.CompletedAt,
		CancelledAt:      order.CancelledAt,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		Version:          order.Version,
	}
}
