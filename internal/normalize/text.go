package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownCategory is assigned to products whose category cell is blank.
const UnknownCategory = "Unknown"

// categorySynonyms maps lower-cased spellings to their canonical category.
var categorySynonyms = map[string]string{
	"electronics": "Electronics",
	"fashion":     "Fashion",
	"groceries":   "Groceries",
}

// Category maps a free-text product category onto its canonical spelling.
// Known synonyms resolve through a fixed table; anything else falls back to
// the trimmed, title-cased original. A blank cell yields UnknownCategory.
func Category(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return UnknownCategory
	}
	if c, ok := categorySynonyms[strings.ToLower(v)]; ok {
		return c
	}
	return Title(v)
}

// Title trims s and title-cases every word ("new DELHI" -> "New Delhi").
// A cases.Caser is stateful, so a fresh one is built per call.
func Title(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return cases.Title(language.Und).String(s)
}

// Email returns the canonical comparison form of an email address: trimmed
// and lower-cased. Email(Email(x)) == Email(x).
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// PlaceholderEmail synthesizes an address for a customer whose email is
// missing: <first>.<last>.<code>@unknown.email, lower-cased. A blank first
// name becomes "customer" and a blank last name becomes "unknown".
func PlaceholderEmail(firstName, lastName, code string) string {
	fn := strings.ToLower(strings.TrimSpace(firstName))
	if fn == "" {
		fn = "customer"
	}
	ln := strings.ToLower(strings.TrimSpace(lastName))
	if ln == "" {
		ln = "unknown"
	}
	c := strings.ToLower(strings.TrimSpace(code))
	return fn + "." + ln + "." + c + "@unknown.email"
}
