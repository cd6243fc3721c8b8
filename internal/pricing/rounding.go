package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"order-pricing-api/internal/models"
)

// RoundMoney rounds amount to two decimal places, half away from zero.
//
// The float is converted through its shortest decimal representation, so a
// value such as 1.005 rounds to 1.01 even though its binary form sits just
// below the midpoint. NaN and infinities are returned unchanged.
func RoundMoney(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	rounded := decimal.NewFromFloat(amount).Round(models.MoneyDecimalPlaces).InexactFloat64()
	if rounded == 0 {
		// normalise -0
		return 0
	}
	return rounded
}

// MoneyDecimal converts an already-rounded monetary float into a decimal
func MoneyDecimal(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(models.MoneyDecimalPlaces)
}
