package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/proserv/backend/internal/domain/catalog"
	"github.com/proserv/backend/internal/domain/sales"
	"github.com/proserv/backend/internal/domain/shared"
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SnapshotResolver turns incoming line-item inputs into line items carrying a
// frozen pricing snapshot. An item whose ID matches a previous item with the
// same product and special-bid reference keeps the previous snapshot verbatim;
// everything else is resolved against the catalog in two batch queries, one
// for products and one for special prices.
type SnapshotResolver struct {
	productRepo      catalog.ProductRepository
	specialPriceRepo catalog.SpecialPriceRepository
}

// NewSnapshotResolver creates a new SnapshotResolver
func NewSnapshotResolver(productRepo catalog.ProductRepository, specialPriceRepo catalog.SpecialPriceRepository) *SnapshotResolver {
	return &SnapshotResolver{
		productRepo:      productRepo,
		specialPriceRepo: specialPriceRepo,
	}
}

// ResolveForQuote resolves items for a quote, snapshotting the product tax rate
func (r *SnapshotResolver) ResolveForQuote(ctx context.Context, inputs []LineItemInput, previous []sales.LineItem) ([]sales.LineItem, error) {
	return r.resolve(ctx, inputs, previous, true)
}

// ResolveForOrder resolves items for an order. Orders carry no tax, so the
// snapshot tax rate is left at zero.
func (r *SnapshotResolver) ResolveForOrder(ctx context.Context, inputs []LineItemInput, previous []sales.LineItem) ([]sales.LineItem, error) {
	return r.resolve(ctx, inputs, previous, false)
}

func (r *SnapshotResolver) resolve(ctx context.Context, inputs []LineItemInput, previous []sales.LineItem, withTax bool) ([]sales.LineItem, error) {
	prevByID := make(map[uuid.UUID]*sales.LineItem, len(previous))
	for i := range previous {
		prevByID[previous[i].ID] = &previous[i]
	}

	items := make([]sales.LineItem, 0, len(inputs))
	pending := make([]int, 0, len(inputs))

	for idx, input := range inputs {
		lineDiscount := valueobject.ZeroPercent()
		if input.LineDiscount != nil {
			var err error
			lineDiscount, err = valueobject.NewPercent(*input.LineDiscount)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("items[%d]: %v", idx, err))
			}
		}

		item, err := sales.NewLineItem(
			input.ProductID,
			input.ProductName,
			input.SpecialBidID,
			input.Quantity,
			valueobject.NewMoneyEUR(input.UnitPrice),
			lineDiscount,
			input.Note,
		)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("items[%d]: %v", idx, err))
		}

		if input.ID != nil {
			if prev, ok := prevByID[*input.ID]; ok && prev.SameReference(input.ProductID, input.SpecialBidID) {
				// Snapshot reuse: keep the previous item identity and frozen
				// figures, no catalog round-trip.
				item.ID = prev.ID
				item.CreatedAt = prev.CreatedAt
				item.AttachSnapshot(prev.GetSnapshot())
				items = append(items, *item)
				continue
			}
		}

		items = append(items, *item)
		pending = append(pending, idx)
	}

	if len(pending) == 0 {
		return items, nil
	}

	products, prices, err := r.fetchCatalog(ctx, items, pending)
	if err != nil {
		return nil, err
	}

	for _, idx := range pending {
		item := &items[idx]

		product, ok := products[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("items[%d]: product %s not found", idx, item.ProductID))
		}

		snapshot := sales.Snapshot{
			ProductCost:          product.Cost,
			ProductMolPercentage: product.MolPercentage,
		}
		if withTax {
			snapshot.ProductTaxRate = product.TaxRate
		} else {
			snapshot.ProductTaxRate = decimal.Zero
		}

		if item.SpecialBidID != nil {
			price, ok := prices[*item.SpecialBidID]
			if !ok {
				return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("items[%d]: special price %s not found", idx, item.SpecialBidID))
			}
			if !price.AppliesTo(item.ProductID) {
				return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("items[%d]: special price %s does not apply to product %s", idx, item.SpecialBidID, item.ProductID))
			}
			unitPrice := price.UnitPrice
			molPercentage := price.MolPercentage
			snapshot.SpecialBidUnitPrice = &unitPrice
			snapshot.SpecialBidMolPercentage = &molPercentage
		}

		item.AttachSnapshot(snapshot)
	}

	return items, nil
}

// fetchCatalog batch-loads the products and special prices referenced by the
// pending items, one query per repository.
func (r *SnapshotResolver) fetchCatalog(ctx context.Context, items []sales.LineItem, pending []int) (map[uuid.UUID]catalog.Product, map[uuid.UUID]catalog.SpecialPrice, error) {
	productIDs := make([]uuid.UUID, 0, len(pending))
	priceIDs := make([]uuid.UUID, 0, len(pending))
	seenProducts := make(map[uuid.UUID]bool)
	seenPrices := make(map[uuid.UUID]bool)

	for _, idx := range pending {
		item := &items[idx]
		if !seenProducts[item.ProductID] {
			seenProducts[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
		if item.SpecialBidID != nil && !seenPrices[*item.SpecialBidID] {
			seenPrices[*item.SpecialBidID] = true
			priceIDs = append(priceIDs, *item.SpecialBidID)
		}
	}

	productList, err := r.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	products := make(map[uuid.UUID]catalog.Product, len(productList))
	for _, p := range productList {
		products[p.ID] = p
	}

	prices := make(map[uuid.UUID]catalog.SpecialPrice)
	if len(priceIDs) > 0 {
		priceList, err := r.specialPriceRepo.FindByIDs(ctx, priceIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, sp := range priceList {
			prices[sp.ID] = sp
		}
	}

	return products, prices, nil
}
