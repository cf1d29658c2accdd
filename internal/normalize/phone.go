// Package normalize provides the pure field normalizers applied by the
// entity cleaners: phone numbers, product categories, mixed-format dates,
// emails, and title-cased free text.
//
// Every function takes raw cell text and returns its canonical form. None of
// them touch shared state, so they are safe to call from anywhere.
package normalize

import "strings"

// nationalPrefix is the country calling code stripped from long numbers.
const nationalPrefix = "91"

// Phone converts a free-text phone number into "+91-XXXXXXXXXX" when it
// reduces to exactly ten digits.
//
// Rules, applied in order to the digits of raw:
//   - a "91" prefix on a number longer than 10 digits keeps the trailing 10
//   - a leading "0" on a number longer than 10 digits keeps the trailing 10
//   - exactly 10 digits are formatted as +91-<digits>
//   - any other non-empty digit string is returned as is
//
// The second result is false when raw contains no digits at all.
func Phone(raw string) (string, bool) {
	digits := onlyDigits(strings.TrimSpace(raw))

	if strings.HasPrefix(digits, nationalPrefix) && len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if strings.HasPrefix(digits, "0") && len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}

	switch {
	case len(digits) == 10:
		return "+" + nationalPrefix + "-" + digits, true
	case digits != "":
		return digits, true
	default:
		return "", false
	}
}

// onlyDigits drops every byte that is not an ASCII digit.
func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
