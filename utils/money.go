package utils

import (
	"fmt"
	"math"
)

// Round rounds to the nearest whole currency unit, half up. Plan prices are
// whole rupees, so tax amounts are settled at rupee granularity too.
func Round(value float64) float64 {
	return math.Round(value)
}

// MinorUnits converts a major-unit amount to minor units (paise). Assumes a
// 1/100 subunit, which holds for INR but not for every currency.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FormatINR(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
