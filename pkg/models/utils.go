package models

import (
	"github.com/shopspring/decimal"
)

// DecimalFromString parses a decimal amount, falling back to zero on
// malformed input. Callers that need to distinguish malformed input
// from zero should use decimal.NewFromString directly.
func DecimalFromString(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}
