package model

import "time"

// Accepted ISO-8601 layouts, most specific first. Date-only values are
// common for due dates entered by hand.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 timestamp. The bool is false for empty or
// unparseable input; consumers treat that as "no date" rather than an error.
func ParseTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FormatTime renders a timestamp in the persisted RFC 3339 form.
func FormatTime(ts time.Time) string {
	return ts.Format(time.RFC3339)
}
