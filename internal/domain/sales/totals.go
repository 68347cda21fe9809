package sales

import (
	"github.com/proserv/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Totals holds the computed financial summary of a commercial document
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TotalTax       decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals calculates document totals from line items and a document-level
// discount. It is a pure function: no I/O, same inputs always yield the same
// output.
//
// The document discount is applied on two independent paths: once against the
// aggregate subtotal to obtain the taxable amount, and once per line before the
// line's tax rate is applied. Tax is therefore computed on each discounted line
// amount, not on the post-discount aggregate. The two paths must not be merged.
func ComputeTotals(items []LineItem, documentDiscount valueobject.Percent) Totals {
	subtotal := decimal.Zero
	totalTax := decimal.Zero

	hundred := decimal.NewFromInt(100)
	for _, item := range items {
		lineNet := item.NetAmount()
		subtotal = subtotal.Add(lineNet)

		// taxRate is zero for orders; the snapshot only carries it for quotes
		lineTax := documentDiscount.ApplyTo(lineNet).Mul(item.ProductTaxRate.Div(hundred))
		totalTax = totalTax.Add(lineTax)
	}

	discountAmount := documentDiscount.Of(subtotal)
	taxableAmount := subtotal.Sub(discountAmount)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		TotalTax:       totalTax,
		Total:          taxableAmount.Add(totalTax),
	}
}

// IsPayable reports whether the computed total is strictly positive.
// Documents with a non-positive total are rejected before any write.
func (t Totals) IsPayable() bool {
	return t.Total.IsPositive()
}
