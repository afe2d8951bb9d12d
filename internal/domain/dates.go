package domain

import (
	"fmt"
	"time"
)

// renderLayout matches the JavaScript Date toDateString shape, e.g.
// "Sun Jan 01 2023". All rendered dates use this fixed, locale-independent
// format.
const renderLayout = "Mon Jan 02 2006"

var parseLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 2 2006",
}

// ParseDate interprets raw as a calendar date. Accepted inputs are ISO dates,
// RFC 3339 timestamps and "Jan 2 2006" style strings.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", raw)
}

// RenderDate formats t for API responses.
func RenderDate(t time.Time) string {
	return t.UTC().Format(renderLayout)
}
