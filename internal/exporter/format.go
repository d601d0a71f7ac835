package exporter

import (
	"fmt"
	"math"
)

// formatFloat formats a monetary value for CSV output with exactly 2
// decimal places, so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatRatio formats a ratio as a fraction with 4 decimal places.
// NaN (ratio undefined for the row) renders as an empty field.
func formatRatio(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.4f", f)
}
