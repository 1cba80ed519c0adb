package view

import "github.com/shopspring/decimal"

// Amount formats a numeric display value to exactly 3 decimal places,
// rounding half away from zero, the same rule used for cost math.
func Amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}
