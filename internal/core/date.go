package core

import (
	"strings"
	"time"
)

// Receipt dates arrive as ISO-8601 strings, sometimes bare dates and
// sometimes full timestamps depending on how the receipt was entered.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or date-time string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// DateOnly strips any time-of-day component, returning the YYYY-MM-DD part.
func DateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return strings.TrimSpace(s)
}

// Today returns the current calendar day in the receipt date format.
func Today() string {
	return time.Now().Format("2006-01-02")
}
