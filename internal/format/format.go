// Package format renders KPI values for display.
package format

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NA is shown for values that cannot be computed.
const NA = "N/A"

var printer = message.NewPrinter(language.English)

// Money formats a dollar amount as $1.23B, $45.60M or $12,345.
func Money(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	switch a := math.Abs(v); {
	case a >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case a >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

// MoneyAxis formats chart axis ticks: 1.2B, 3.4M, 12K.
func MoneyAxis(v float64) string {
	switch a := math.Abs(v); {
	case a >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case a >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	}
	return fmt.Sprintf("%.0fK", v/1e3)
}

// Human scales v by thousands: 999.00, 1.23K, 4.50M.
func Human(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	for _, unit := range []string{"", "K", "M", "B", "T"} {
		if math.Abs(v) < 1000 {
			return fmt.Sprintf("%.2f%s", v, unit)
		}
		v /= 1000
	}
	return fmt.Sprintf("%.2fP", v)
}

// Percent formats a percentage with one decimal.
func Percent(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return fmt.Sprintf("%.1f%%", v)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Minutes formats a running time, truncated to whole minutes.
func Minutes(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return fmt.Sprintf("%d min", int(v))
}

// Decade labels a decade start year: 1990 -> "1990s".
func Decade(d int) string {
	return strconv.Itoa(d) + "s"
}
