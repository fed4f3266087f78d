// internal/domain/models/dates.go
package models

import (
	"fmt"
	"time"
)

const (
	monthKeyLayout = "2006-01"
	dateKeyLayout  = "2006-01-02"
)

// FormatMonthKey renders year/month as "2006-01".
func FormatMonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseMonthKey parses "2006-01".
func ParseMonthKey(s string) (int, time.Month, error) {
	t, err := time.Parse(monthKeyLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// AdjacentMonthKeys returns the months before and after key.
func AdjacentMonthKeys(year int, month time.Month) (prev, next string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	p := first.AddDate(0, -1, 0)
	n := first.AddDate(0, 1, 0)
	return FormatMonthKey(p.Year(), p.Month()), FormatMonthKey(n.Year(), n.Month())
}

// FormatDateKey renders the calendar date of t as "2006-01-02".
func FormatDateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey parses "2006-01-02" as midnight UTC.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole-day difference from today to target, both taken
// as calendar dates. Negative values are in the past.
func DaysUntil(today, target time.Time) int {
	return int(DateOf(target).Sub(DateOf(today)).Hours() / 24)
}

// DDayLabel renders a day difference the way meetup apps show it:
// "D-Day", "D-3" before the date and "D+2" after it.
func DDayLabel(days int) string {
	switch {
	case days == 0:
		return "D-Day"
	case days > 0:
		return fmt.Sprintf("D-%d", days)
	default:
		return fmt.Sprintf("D+%d", -days)
	}
}
