package search

import (
	"fmt"
	"strings"
	"time"
)

// FormatUptime renders d as "X days Y hours Z minutes", leaving out zero parts.
func FormatUptime(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	days := int64(d / (24 * time.Hour))
	hours := int64(d/time.Hour) % 24
	minutes := int64(d/time.Minute) % 60

	parts := make([]string, 0, 3)
	parts = appendUnit(parts, days, "day")
	parts = appendUnit(parts, hours, "hour")
	parts = appendUnit(parts, minutes, "minute")
	return strings.Join(parts, " ")
}

func appendUnit(parts []string, n int64, unit string) []string {
	switch n {
	case 0:
		return parts
	case 1:
		return append(parts, "1 "+unit)
	default:
		return append(parts, fmt.Sprintf("%d %ss", n, unit))
	}
}
