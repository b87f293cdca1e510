// Package time holds the wall clock conventions the chat platform and the dashboard agree on
package time

import (
	"strings"
	"time"
)

// IstanbulOffset is the fixed +03:00 offset Turkey has used all year since 2016
const IstanbulOffset = 3 * time.Hour

// Istanbul is a fixed zone, so no tzdata is needed at runtime
var Istanbul = time.FixedZone("Europe/Istanbul", int(IstanbulOffset/time.Second))

// UpstreamStamp encodes t the way the chat list API expects window bounds:
// Istanbul wall clock written as if it were UTC
func UpstreamStamp(t time.Time) string {
	return t.UTC().Add(IstanbulOffset).Format("2006-01-02T15:04:05.000Z")
}

// IstanbulStamp renders t for humans reading alerts and results
func IstanbulStamp(t time.Time) string {
	return t.In(Istanbul).Format("02.01.2006 15:04:05")
}

var stampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseStamp accepts RFC3339 and the common zone less layouts; zone less values are read as UTC
func ParseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Ptr returns &t, or nil for the zero time
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
