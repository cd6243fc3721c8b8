// Package pricing computes sales document totals from line items.
//
// Discount is applied before tax, and tax is computed per line on that line's
// post-discount amount using the line's own rate, then summed. Sums are kept
// at full float64 precision and each output field is rounded to cents once,
// half away from zero, when the totals are returned.
package pricing

import (
	"order-pricing-api/internal/models"
)

// Options controls how line-level fiscal modifiers are applied
type Options struct {
	// IncludeLineLevelCalculations defaults to true when nil. When false the
	// discount, tax, excise and other fee totals are forced to zero and the
	// grand total equals the subtotal.
	IncludeLineLevelCalculations *bool `json:"include_line_level_calculations,omitempty"`
}

// RawTotalsOnly returns options that suppress every line-level percentage and flat amount
func RawTotalsOnly() *Options {
	disabled := false
	return &Options{IncludeLineLevelCalculations: &disabled}
}

// WithLineLevelCalculations returns options with the toggle explicitly set
func WithLineLevelCalculations(include bool) *Options {
	return &Options{IncludeLineLevelCalculations: &include}
}

// LineLevelCalculationsEnabled resolves the toggle, treating nil options as the default
func (o *Options) LineLevelCalculationsEnabled() bool {
	if o == nil || o.IncludeLineLevelCalculations == nil {
		return true
	}
	return *o.IncludeLineLevelCalculations
}

// lineAmounts holds the unrounded amounts of a single line
type lineAmounts struct {
	raw      float64
	discount float64
	tax      float64
	excise   float64
	fee      float64
}

// priceLine applies the fixed order of operations to one line
func priceLine(item *models.LineItem, includeLineLevel bool) lineAmounts {
	amounts := lineAmounts{
		raw: item.Quantity * item.ResolvedFactor() * item.UnitPrice,
	}
	if !includeLineLevel {
		return amounts
	}

	amounts.discount = amounts.raw * item.ResolvedDiscountPercent() / models.PercentScale
	net := amounts.raw - amounts.discount
	amounts.tax = net * item.ResolvedTaxPercent() / models.PercentScale
	amounts.excise = item.ResolvedExciseAmount()
	amounts.fee = item.ResolvedOtherFeeAmount()

	return amounts
}

// Compute calculates document totals for the given line items.
//
// A nil or empty slice yields all-zero totals. Compute never panics, never
// mutates lines and keeps no state between calls. Non-finite inputs are not
// sanitized and propagate into the affected fields.
func Compute(lines []models.LineItem, opts *Options) models.Totals {
	includeLineLevel := opts.LineLevelCalculationsEnabled()

	var quantity, subtotal, discount, tax, excise, fee float64
	for i := range lines {
		amounts := priceLine(&lines[i], includeLineLevel)

		quantity += lines[i].Quantity
		subtotal += amounts.raw
		discount += amounts.discount
		tax += amounts.tax
		excise += amounts.excise
		fee += amounts.fee
	}

	net := subtotal - discount
	grand := net + tax + excise + fee

	return models.Totals{
		ItemQuantityTotal: quantity,
		Subtotal:          RoundMoney(subtotal),
		DiscountTotal:     RoundMoney(discount),
		NetAmount:         RoundMoney(net),
		TaxTotal:          RoundMoney(tax),
		ExciseTotal:       RoundMoney(excise),
		OtherFeeTotal:     RoundMoney(fee),
		GrandTotal:        RoundMoney(grand),
	}
}
