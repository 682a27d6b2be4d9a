package dashkit

import (
	"strconv"
	"strings"
	"time"
)

// Placeholder is rendered in place of absent values.
const Placeholder = "-"

// displayLayout is how the dashboard presents timestamps.
const displayLayout = "2006-01-02 15:04:05"

// dateLayouts are the formats the push-service API emits, most specific
// first. The request_logs table stores "2006-01-02 15:04:05".
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDateTime renders a date-like value for display. Empty input yields
// [Placeholder]. A non-empty value no layout matches is returned unchanged;
// malformed input is the caller's to notice, not ours to validate.
func FormatDateTime(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(displayLayout)
		}
	}
	return value
}

// FormatDuration renders a millisecond duration with two decimals and a unit
// suffix. A nil input yields [Placeholder].
func FormatDuration(ms *float64) string {
	if ms == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*ms, 'f', 2, 64) + " ms"
}
