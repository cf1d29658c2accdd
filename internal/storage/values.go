package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the textual date forms drivers hand back for DATE
// columns.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// AsInt64 converts a driver value to int64.
func AsInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, fmt.Errorf("storage: cannot convert %T to int64", v)
	}
}

// AsFloat64 converts a driver value to float64.
func AsFloat64(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("storage: cannot convert %T to float64", v)
	}
}

// AsString converts a driver value to string; nil becomes "".
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// AsDate converts a driver value to a calendar date at midnight UTC.
func AsDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case []byte:
		return parseDate(string(t))
	case string:
		return parseDate(t)
	default:
		return time.Time{}, fmt.Errorf("storage: cannot convert %T to date", v)
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return AsDate(t)
		}
	}
	return time.Time{}, fmt.Errorf("storage: unrecognized date %q", s)
}
