package efactura

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-api/pkg/ciusro"
)

// TaxGroup accumulates the taxable base and the tax amount of every line
// sharing one (category, percent) pair. Groups keep the order in which their
// key was first seen in the line list.
type TaxGroup struct {
	Category            ciusro.TaxCategory
	Percent             decimal.Decimal
	TaxableAmount       decimal.Decimal
	TaxAmount           decimal.Decimal
	ExemptionReasonCode string // set only for category "O"
}

// groupKey is the composite grouping key. Percent is normalized to a fixed
// 2-decimal string so 19, 19.0 and 19.00 land in the same group.
type groupKey struct {
	category ciusro.TaxCategory
	percent  string
}

// LineExtension returns the taxable amount of one line.
//
// The unit price is rounded to 2 decimals BEFORE multiplying by the quantity
// and the product is rounded again. The two-stage rounding is deliberate and
// load-bearing: 3 × 33.333333 is 99.99 (33.33 × 3), not 100.00.
func LineExtension(line InvoiceLine) decimal.Decimal {
	return line.Quantity.Mul(line.UnitPrice.Round(2)).Round(2)
}

// LineTax returns the tax amount of one line, rounded to 2 decimals.
func LineTax(line InvoiceLine) decimal.Decimal {
	return LineExtension(line).Mul(line.TaxPercent).Div(oneHundred).Round(2)
}

// CategoryFor picks the VAT category of one line. A non-VAT-payer supplier
// forces "O" on every line regardless of the line's own percent; otherwise a
// positive percent is standard rated and zero is zero rated.
func CategoryFor(taxPercent decimal.Decimal, supplierVatPayer bool) ciusro.TaxCategory {
	switch {
	case !supplierVatPayer:
		return ciusro.TaxCategoryOutsideScope
	case taxPercent.IsPositive():
		return ciusro.TaxCategoryStandard
	default:
		return ciusro.TaxCategoryZeroRated
	}
}

// GroupByTax aggregates the lines into tax subtotal groups, one per distinct
// (category, percent) pair, in first-seen order. Both accumulators are
// re-rounded to 2 decimals after every addition so rounding drift cannot
// compound across many lines. An empty line list yields an empty result; the
// document assembler substitutes the synthetic zero subtotal.
func GroupByTax(lines []InvoiceLine, supplierVatPayer bool) []TaxGroup {
	groups := make(map[groupKey]*TaxGroup, len(lines))
	order := make([]groupKey, 0, len(lines))

	for _, line := range lines {
		category := CategoryFor(line.TaxPercent, supplierVatPayer)
		key := groupKey{category: category, percent: line.TaxPercent.StringFixed(2)}

		g, ok := groups[key]
		if !ok {
			g = &TaxGroup{Category: category, Percent: line.TaxPercent}
			if category == ciusro.TaxCategoryOutsideScope {
				g.ExemptionReasonCode = ciusro.ExemptionReasonNotVatPayer
			}
			groups[key] = g
			order = append(order, key)
		}

		g.TaxableAmount = g.TaxableAmount.Add(LineExtension(line)).Round(2)
		g.TaxAmount = g.TaxAmount.Add(LineTax(line)).Round(2)
	}

	out := make([]TaxGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out
}

// TotalTaxable sums the taxable amounts of the groups, rounded to 2 decimals
// after each addition. With the grouping above it equals the sum of all line
// extension amounts.
func TotalTaxable(groups []TaxGroup) decimal.Decimal {
	var total decimal.Decimal
	for _, g := range groups {
		total = total.Add(g.TaxableAmount).Round(2)
	}
	return total
}

// TotalTax sums the tax amounts of the groups, rounded to 2 decimals after
// each addition.
func TotalTax(groups []TaxGroup) decimal.Decimal {
	var total decimal.Decimal
	for _, g := range groups {
		total = total.Add(g.TaxAmount).Round(2)
	}
	return total
}
