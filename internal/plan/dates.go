package plan

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format used throughout the planner.
const DateLayout = "2006-01-02"

// Today returns the current local calendar date.
func Today() string {
	return time.Now().Format(DateLayout)
}

// AddDays shifts a calendar date by n days. An unparseable date is
// treated as today.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		t = time.Now()
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// ParseDate parses a calendar date, tolerating full RFC 3339 timestamps
// by truncating to the date part.
func ParseDate(date string) (time.Time, error) {
	if len(date) > len(DateLayout) {
		date = date[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// DaysUntil returns the number of whole days from today until date.
// Negative when the date is in the past, zero when unparseable.
func DaysUntil(date string) int {
	t, err := ParseDate(date)
	if err != nil {
		return 0
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}
