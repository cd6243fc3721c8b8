package models

import "math"

// Totals is the aggregate pricing result for a list of line items.
//
// ItemQuantityTotal is the sum of line quantities, not the number of lines.
// Every monetary field is rounded to two decimal places.
type Totals struct {
	ItemQuantityTotal float64 `json:"item_quantity_total"`
	Subtotal          float64 `json:"subtotal"`
	DiscountTotal     float64 `json:"discount_total"`
	NetAmount         float64 `json:"net_amount"`
	TaxTotal          float64 `json:"tax_total"`
	ExciseTotal       float64 `json:"excise_total"`
	OtherFeeTotal     float64 `json:"other_fee_total"`
	GrandTotal        float64 `json:"grand_total"`
}

// IsZero reports whether every field of the totals is zero
func (t Totals) IsZero() bool {
	return t == Totals{}
}

// SurchargeTotal returns the combined excise and other fee totals
func (t Totals) SurchargeTotal() float64 {
	return t.ExciseTotal + t.OtherFeeTotal
}

// IsFinite reports whether every field holds a finite number. Totals computed
// from non-finite or overflowing inputs cannot be encoded as JSON.
func (t Totals) IsFinite() bool {
	for _, v := range []float64{
		t.ItemQuantityTotal, t.Subtotal, t.DiscountTotal, t.NetAmount,
		t.TaxTotal, t.ExciseTotal, t.OtherFeeTotal, t.GrandTotal,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
