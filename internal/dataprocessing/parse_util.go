package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// normalizeHeader lowercases a header cell and strips all whitespace,
// so that line-broken headers like "(1) Umsatz-\nberechnung" match
// their canonical key regardless of how the export wraps them.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cell returns the trimmed cell at idx, or "" when the row is shorter.
// excelize drops trailing empty cells, so short rows are routine.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumericCell parses a spreadsheet number. Thousands separators
// and non-breaking spaces are tolerated; an empty cell is zero.
func parseNumericCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	return strconv.ParseFloat(s, 64)
}

// safeDiv divides preserving the "ratio undefined" semantics: NaN when
// the denominator is zero, never a fake zero a downstream sum could
// misread.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return math.NaN()
	}
	return numerator / denominator
}

// isEmptyRow reports whether every cell of the row is blank.
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
