package catalog

import (
	"strings"

	"github.com/proserv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a catalog item. Its cost, tax rate and margin percentage
// are the authoritative pricing inputs frozen onto line items at resolution.
type Product struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Cost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MolPercentage decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(code, name string, cost, taxRate, molPercentage decimal.Decimal) (*Product, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Product cost cannot be negative")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if molPercentage.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MOL", "Margin percentage cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Cost:              cost,
		TaxRate:           taxRate,
		MolPercentage:     molPercentage,
	}, nil
}

// UpdatePricing updates the product's pricing inputs. Existing line-item
// snapshots are unaffected; only future resolutions see the new figures.
func (p *Product) UpdatePricing(cost, taxRate, molPercentage decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Product cost cannot be negative")
	}
	if taxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if molPercentage.IsNegative() {
		return shared.NewDomainError("INVALID_MOL", "Margin percentage cannot be negative")
	}

	p.Cost = cost
	p.TaxRate = taxRate
	p.MolPercentage = molPercentage
	p.Touch()

	return nil
}
