package catalog

import (
	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SpecialPrice represents a special-price agreement ("special bid"): a
// client+product-specific override of standard catalog pricing with its own
// margin percentage.
type SpecialPrice struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MolPercentage decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SpecialPrice) TableName() string {
	return "special_prices"
}

// NewSpecialPrice creates a new special-price agreement
func NewSpecialPrice(productID, clientID uuid.UUID, unitPrice, molPercentage decimal.Decimal) (*SpecialPrice, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if molPercentage.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MOL", "Margin percentage cannot be negative")
	}

	return &SpecialPrice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		ClientID:          clientID,
		UnitPrice:         unitPrice,
		MolPercentage:     molPercentage,
	}, nil
}

// AppliesTo reports whether the agreement covers the given product
func (s *SpecialPrice) AppliesTo(productID uuid.UUID) bool {
	return s.ProductID == productID
}
