package efactura_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efactura-api/internal/domain/efactura"
	"github.com/jhoicas/efactura-api/pkg/ciusro"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestLineExtension_TwoStageRounding is the canary for the rounding law: the
// unit price rounds to 2 decimals BEFORE multiplying by the quantity, and the
// product rounds again. 3 × 33.333333 must be 99.99 (3 × 33.33), not the
// 100.00 a single final rounding would give.
// ──────────────────────────────────────────────────────────────────────────────
func TestLineExtension_TwoStageRounding(t *testing.T) {
	line := efactura.InvoiceLine{
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: decimal.RequireFromString("33.333333"),
	}

	ext := efactura.LineExtension(line)

	assert.Equal(t, "99.99", ext.StringFixed(2),
		"unit price must round to 33.33 before multiplication")
}

func TestLineExtension_ExactPrice(t *testing.T) {
	line := efactura.InvoiceLine{
		Quantity:  decimal.RequireFromString("2.5"),
		UnitPrice: decimal.RequireFromString("10.10"),
	}
	assert.Equal(t, "25.25", efactura.LineExtension(line).StringFixed(2))
}

func TestLineTax_RoundsToTwoDecimals(t *testing.T) {
	line := efactura.InvoiceLine{
		Quantity:   decimal.NewFromInt(3),
		UnitPrice:  decimal.RequireFromString("33.333333"),
		TaxPercent: decimal.NewFromInt(19),
	}

	// 99.99 × 19% = 18.9981 → 19.00
	assert.Equal(t, "19.00", efactura.LineTax(line).StringFixed(2))
}

// ── Category assignment ───────────────────────────────────────────────────────

func TestCategoryFor(t *testing.T) {
	nineteen := decimal.NewFromInt(19)

	assert.Equal(t, ciusro.TaxCategoryStandard, efactura.CategoryFor(nineteen, true))
	assert.Equal(t, ciusro.TaxCategoryZeroRated, efactura.CategoryFor(decimal.Zero, true))

	// A non-VAT-payer supplier forces "O" regardless of the line percent.
	assert.Equal(t, ciusro.TaxCategoryOutsideScope, efactura.CategoryFor(nineteen, false))
	assert.Equal(t, ciusro.TaxCategoryOutsideScope, efactura.CategoryFor(decimal.Zero, false))
}

// ── Grouping ──────────────────────────────────────────────────────────────────

func TestGroupByTax_MultiRate(t *testing.T) {
	lines := []efactura.InvoiceLine{
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(19)},
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(9)},
	}

	groups := efactura.GroupByTax(lines, true)

	require.Len(t, groups, 2)
	assert.Equal(t, ciusro.TaxCategoryStandard, groups[0].Category)
	assert.Equal(t, "19.00", groups[0].Percent.StringFixed(2), "first-seen order must be kept")
	assert.Equal(t, "100.00", groups[0].TaxableAmount.StringFixed(2))
	assert.Equal(t, "19.00", groups[0].TaxAmount.StringFixed(2))
	assert.Equal(t, "9.00", groups[1].Percent.StringFixed(2))
	assert.Equal(t, "9.00", groups[1].TaxAmount.StringFixed(2))

	assert.Equal(t, "200.00", efactura.TotalTaxable(groups).StringFixed(2))
	assert.Equal(t, "28.00", efactura.TotalTax(groups).StringFixed(2))
}

func TestGroupByTax_SameRateAccumulates(t *testing.T) {
	lines := []efactura.InvoiceLine{
		{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("10.005"), TaxPercent: decimal.NewFromInt(19)},
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("5.55"), TaxPercent: decimal.RequireFromString("19.00")},
	}

	groups := efactura.GroupByTax(lines, true)

	// 19 and 19.00 are the same rate: one group, not two.
	require.Len(t, groups, 1)
	// 2 × round2(10.005) = 20.02 (banker-free half-up), plus 5.55.
	assert.Equal(t, "25.57", groups[0].TaxableAmount.StringFixed(2))
}

func TestGroupByTax_PartitionInvariant(t *testing.T) {
	lines := []efactura.InvoiceLine{
		{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("33.333333"), TaxPercent: decimal.NewFromInt(19)},
		{Quantity: decimal.NewFromInt(7), UnitPrice: decimal.RequireFromString("1.99"), TaxPercent: decimal.NewFromInt(9)},
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("0.01"), TaxPercent: decimal.NewFromInt(19)},
		{Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(12), TaxPercent: decimal.Zero},
	}

	groups := efactura.GroupByTax(lines, true)

	var lineSum decimal.Decimal
	for _, line := range lines {
		lineSum = lineSum.Add(efactura.LineExtension(line)).Round(2)
	}
	assert.True(t, efactura.TotalTaxable(groups).Equal(lineSum),
		"group taxable amounts must partition the line extensions exactly")
}

func TestGroupByTax_NonVatPayerSingleExemptGroup(t *testing.T) {
	lines := []efactura.InvoiceLine{
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(19)},
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), TaxPercent: decimal.NewFromInt(19)},
	}

	groups := efactura.GroupByTax(lines, false)

	require.Len(t, groups, 1)
	assert.Equal(t, ciusro.TaxCategoryOutsideScope, groups[0].Category)
	assert.Equal(t, ciusro.ExemptionReasonNotVatPayer, groups[0].ExemptionReasonCode)
	assert.Equal(t, "150.00", groups[0].TaxableAmount.StringFixed(2))
}

func TestGroupByTax_EmptyLines(t *testing.T) {
	groups := efactura.GroupByTax(nil, true)
	assert.Empty(t, groups, "the synthetic zero group belongs to the assembler, not the grouper")
}
