// Package clean implements the per-entity cleaners. Each cleaner removes
// exact duplicate rows, applies the field normalizers, performs its entity
// specific repair, and returns a new collection together with the counts the
// quality report needs. Inputs are never mutated.
package clean

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber parses a numeric cell. Blank, non-numeric, and non-finite
// values report false.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseCount parses a numeric cell as a whole number, truncating any
// fractional part ("2.0" -> 2).
func parseCount(raw string) (int64, bool) {
	f, ok := parseNumber(raw)
	if !ok || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// isBlank reports whether a cell is empty after trimming.
func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
