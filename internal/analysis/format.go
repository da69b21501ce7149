// Package analysis derives structured reports from raw market data.
// Reports carry computed values only; rendering them into user-facing
// text is the renderer's job.
package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var magnitudes = []struct {
	threshold float64
	suffix    string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatLargeNumber renders a monetary amount with a T/B/M/K suffix.
func FormatLargeNumber(v float64) string {
	if v == 0 {
		return "N/A"
	}
	abs := v
	if abs < 0 {
		abs = -abs
	}
	for _, m := range magnitudes {
		if abs >= m.threshold {
			return fmt.Sprintf("$%.2f%s", v/m.threshold, m.suffix)
		}
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatDecimal renders a decimal amount with a T/B/M/K suffix.
func FormatDecimal(d decimal.Decimal) string {
	f, _ := d.Float64()
	return FormatLargeNumber(f)
}

// FormatPercentage renders a fraction (0.245) as a percentage (24.50%).
func FormatPercentage(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// FormatRatio renders a plain ratio with two decimals.
func FormatRatio(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}
