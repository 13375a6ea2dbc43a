package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(layoutDate, strings.TrimSpace(s))
}

// ParseDateTime parses "YYYY-MM-DD HH:MM" in UTC.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(layoutDateTime, strings.TrimSpace(s))
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM".
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}

// SameOrAfterDate reports whether t falls on or after the calendar date of
// min, ignoring the time of day.
func SameOrAfterDate(t, min time.Time) bool {
	ty, tm, td := t.UTC().Date()
	my, mm, md := min.UTC().Date()
	if ty != my {
		return ty > my
	}
	if tm != mm {
		return tm > mm
	}
	return td >= md
}
