// Package money converts float amounts accumulated by the payroll and advance
// calculators into fixed two-place decimals for presentation.
package money

import "github.com/shopspring/decimal"

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Hours rounds a number of hours to two decimal places.
func Hours(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
