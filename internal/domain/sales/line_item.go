package sales

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Snapshot holds the catalog and special-price figures frozen onto a line item
// at resolution time. Once set, the snapshot is never recomputed from current
// catalog state as long as the item's ProductID and SpecialBidID are unchanged.
type Snapshot struct {
	ProductCost             decimal.Decimal
	ProductTaxRate          decimal.Decimal
	ProductMolPercentage    decimal.Decimal
	SpecialBidUnitPrice     *decimal.Decimal
	SpecialBidMolPercentage *decimal.Decimal
}

// LineItem represents a line item of a commercial document (quote or order)
type LineItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	SpecialBidID *uuid.UUID      `gorm:"type:uuid"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Note         string          `gorm:"type:text"`

	// Snapshot fields, frozen at resolution time
	ProductCost             decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ProductTaxRate          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ProductMolPercentage    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SpecialBidUnitPrice     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	SpecialBidMolPercentage *decimal.Decimal `gorm:"type:decimal(18,4)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "line_items"
}

// NewLineItem creates a new line item with validated commercial inputs.
// The snapshot fields are attached separately by the resolver.
func NewLineItem(productID uuid.UUID, productName string, specialBidID *uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Money, lineDiscount valueobject.Percent, note string) (*LineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:           uuid.New(),
		ProductID:    productID,
		ProductName:  productName,
		SpecialBidID: NormalizeSpecialBidID(specialBidID),
		Quantity:     quantity,
		UnitPrice:    unitPrice.Amount(),
		LineDiscount: lineDiscount.Rate(),
		Note:         note,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AttachSnapshot freezes the resolved catalog figures onto the item
func (i *LineItem) AttachSnapshot(s Snapshot) {
	i.ProductCost = s.ProductCost
	i.ProductTaxRate = s.ProductTaxRate
	i.ProductMolPercentage = s.ProductMolPercentage
	i.SpecialBidUnitPrice = s.SpecialBidUnitPrice
	i.SpecialBidMolPercentage = s.SpecialBidMolPercentage
	i.UpdatedAt = time.Now()
}

// GetSnapshot returns the frozen snapshot fields
func (i *LineItem) GetSnapshot() Snapshot {
	return Snapshot{
		ProductCost:             i.ProductCost,
		ProductTaxRate:          i.ProductTaxRate,
		ProductMolPercentage:    i.ProductMolPercentage,
		SpecialBidUnitPrice:     i.SpecialBidUnitPrice,
		SpecialBidMolPercentage: i.SpecialBidMolPercentage,
	}
}

// NetAmount returns quantity * unitPrice * (1 - lineDiscount/100)
func (i *LineItem) NetAmount() decimal.Decimal {
	discount := decimal.NewFromInt(1).Sub(i.LineDiscount.Div(decimal.NewFromInt(100)))
	return i.Quantity.Mul(i.UnitPrice).Mul(discount)
}

// SameReference reports whether the item references the same product and
// special bid as the other. Used to decide snapshot reuse.
func (i *LineItem) SameReference(productID uuid.UUID, specialBidID *uuid.UUID) bool {
	return i.ProductID == productID && equalSpecialBidIDs(i.SpecialBidID, NormalizeSpecialBidID(specialBidID))
}

// SortKey returns a deterministic key for order-independent item comparison:
// a composite of the item's commercial fields. Incoming replacement items
// carry no IDs, so the key deliberately excludes the item ID.
func (i *LineItem) SortKey() string {
	bid := ""
	if NormalizeSpecialBidID(i.SpecialBidID) != nil {
		bid = i.SpecialBidID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		i.ProductID, i.ProductName, bid,
		i.Quantity.String(), i.UnitPrice.String(), i.LineDiscount.String())
}

// NormalizeSpecialBidID maps the absent-bid representations (nil pointer or
// the zero UUID) onto nil so they compare as equal
func NormalizeSpecialBidID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}

func equalSpecialBidIDs(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ItemSetsEqual reports whether two item collections are commercially
// equivalent, ignoring ordering and snapshot/timestamp fields. Items are
// matched after sorting both sets by their derived sort key.
func ItemSetsEqual(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}

	sortedA := sortedByKey(a)
	sortedB := sortedByKey(b)

	for idx := range sortedA {
		if normalizedItemKey(&sortedA[idx]) != normalizedItemKey(&sortedB[idx]) {
			return false
		}
	}
	return true
}

func sortedByKey(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})
	return out
}

// normalizedItemKey encodes the commercial field set of an item. Quantity,
// price and discount are normalized through String() so 10 and 10.00 compare
// as equal.
func normalizedItemKey(i *LineItem) string {
	bid := ""
	if NormalizeSpecialBidID(i.SpecialBidID) != nil {
		bid = i.SpecialBidID.String()
	}
	fields := []string{
		i.ProductID.String(),
		i.ProductName,
		bid,
		i.Quantity.String(),
		i.UnitPrice.String(),
		i.LineDiscount.String(),
		i.Note,
	}
	return strings.Join(fields, "|")
}
