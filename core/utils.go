package core

import (
	"math"
	"strings"
	"time"
)

// DateFormat is the wire and storage format for calendar dates.
const DateFormat = "2006-01-02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Round2 rounds to 2 decimal places; all reported percentages and averages use it.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FormatDate renders t as a calendar date string.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a calendar date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
