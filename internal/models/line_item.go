package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultFactor is the unit-conversion multiplier used when a line does not carry one
const DefaultFactor = 1.0

// LineItem represents one row of a sales document (cart, invoice, purchase order).
//
// Quantity and UnitPrice drive the subtotal. The remaining numeric fields are
// optional: a nil pointer means the value was not supplied and resolves to its
// identity value (1 for Factor, 0 for everything else) when totals are computed.
// Percentages use the 0-100 scale. ExciseAmount and OtherFeeAmount are flat,
// already-computed currency amounts.
type LineItem struct {
	Quantity        float64  `json:"quantity" validate:"finite,gte=0"`
	UnitPrice       float64  `json:"unit_price" validate:"finite,gte=0"`
	Factor          *float64 `json:"factor,omitempty" validate:"omitempty,finite,gt=0"`
	DiscountPercent *float64 `json:"discount_percent,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
	TaxPercent      *float64 `json:"tax_percent,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
	ExciseAmount    *float64 `json:"excise_amount,omitempty" validate:"omitempty,finite,gte=0"`
	OtherFeeAmount  *float64 `json:"other_fee_amount,omitempty" validate:"omitempty,finite,gte=0"`

	// Business metadata, carried through untouched by the pricing engine
	ProductCode string `json:"product_code,omitempty"`
	Description string `json:"description,omitempty"`
	Warehouse   string `json:"warehouse,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
}

// Float returns a pointer to v, for populating optional line item fields
func Float(v float64) *float64 {
	return &v
}

// ResolvedFactor returns the factor, or DefaultFactor when absent
func (li LineItem) ResolvedFactor() float64 {
	return valueOr(li.Factor, DefaultFactor)
}

// ResolvedDiscountPercent returns the discount percentage, or 0 when absent
func (li LineItem) ResolvedDiscountPercent() float64 {
	return valueOr(li.DiscountPercent, 0)
}

// ResolvedTaxPercent returns the tax percentage, or 0 when absent
func (li LineItem) ResolvedTaxPercent() float64 {
	return valueOr(li.TaxPercent, 0)
}

// ResolvedExciseAmount returns the excise amount, or 0 when absent
func (li LineItem) ResolvedExciseAmount() float64 {
	return valueOr(li.ExciseAmount, 0)
}

// ResolvedOtherFeeAmount returns the other fee amount, or 0 when absent
func (li LineItem) ResolvedOtherFeeAmount() float64 {
	return valueOr(li.OtherFeeAmount, 0)
}

// GetDisplayText returns a formatted display text for the line item
func (li LineItem) GetDisplayText() string {
	name := strings.TrimSpace(li.Description)
	if name == "" {
		name = strings.TrimSpace(li.ProductCode)
	}
	if name == "" {
		name = "Item"
	}

	text := fmt.Sprintf("%s (x%s @ %s)", name, formatNumber(li.Quantity), formatNumber(li.UnitPrice))

	if li.Factor != nil && *li.Factor != DefaultFactor {
		text += fmt.Sprintf(" x%s", formatNumber(*li.Factor))
	}

	return text
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
