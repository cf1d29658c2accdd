// Package builtin contains reusable row transformers shared by the entity
// cleaners.
//
// DedupExact collapses exact full-row duplicates, keeping the first
// occurrence of every distinct row and preserving input order. Rows are
// fingerprinted with xxh3 over their fields joined by an unlikely separator;
// a fingerprint hit is confirmed field-by-field, so a hash collision can
// never drop a distinct row.
package builtin

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// fieldSep separates fields inside a fingerprint key.
const fieldSep = '\x1f'

// Fingerprint returns the 128-bit xxh3 hash of fields.
func Fingerprint(fields []string) xxh3.Uint128 {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(fieldSep)
		}
		b.WriteString(f)
	}
	return xxh3.HashString128(b.String())
}

// DedupExact returns in without exact duplicates and the number of rows
// removed. fields must return the complete row; two rows are duplicates
// only when every field is byte-identical.
func DedupExact[T any](in []T, fields func(T) []string) ([]T, int) {
	if len(in) == 0 {
		return in, 0
	}

	out := make([]T, 0, len(in))
	seen := make(map[xxh3.Uint128][][]string, len(in))
	for _, row := range in {
		f := fields(row)
		fp := Fingerprint(f)
		if containsRow(seen[fp], f) {
			continue
		}
		seen[fp] = append(seen[fp], f)
		out = append(out, row)
	}
	return out, len(in) - len(out)
}

// containsRow reports whether rows holds a row equal to f.
func containsRow(rows [][]string, f []string) bool {
	for _, r := range rows {
		if equalFields(r, f) {
			return true
		}
	}
	return false
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
