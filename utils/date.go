package utils

import (
	"time"
)

// NextBillingDate advances a billing anchor by one interval. Unknown
// intervals fall back to monthly.
func NextBillingDate(from time.Time, interval string) time.Time {
	switch interval {
	case "yearly", "annual":
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}
