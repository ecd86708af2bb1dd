package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for appointment and issue dates.
const DateLayout = "2006-01-02"

// ParseDate accepts either a calendar date (2006-01-02) or an RFC 3339
// timestamp. field names the input in the validation error.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrValidation("%s is required", field)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrValidation("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field)
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return ErrValidation("%s is required", field)
	}
	return nil
}

// requireAll returns the first missing field among name/value pairs.
func requireAll(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := required(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return ErrValidation("%s must be one of %s", field, strings.Join(allowed, ", "))
}
