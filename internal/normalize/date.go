package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	dashDateRe  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

const (
	layoutISO      = "2006-01-02"
	layoutDayFirst = "02/01/2006"
	layoutMonFirst = "01/02/2006"
	layoutMonDash  = "01-02-2006"
)

// ParseMixedDate parses the date layouts found in the legacy extracts:
//
//	2024-01-15  ISO
//	15/01/2024  day-first, chosen when the first component is > 12
//	03/12/2024  month-first, chosen otherwise
//	01-22-2024  always month-first
//
// A slash date whose first two components are both <= 12 cannot be told
// apart and is read month-first. That loss is accepted.
//
// The second result is false when raw matches none of the layouts or names
// an impossible calendar date. Returned times are midnight UTC.
func ParseMixedDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)

	var layout string
	switch {
	case isoDateRe.MatchString(s):
		layout = layoutISO
	case slashDateRe.MatchString(s):
		first, _ := strconv.Atoi(s[:2])
		layout = layoutMonFirst
		if first > 12 {
			layout = layoutDayFirst
		}
	case dashDateRe.MatchString(s):
		layout = layoutMonDash
	default:
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
