// Package timeutil provides minute-of-day arithmetic for schedule
// comparisons. Clock times are compared as integers, never as strings:
// lexical "HH:MM" ordering only works by accident for zero-padded values.
package timeutil

import (
	"fmt"
	"time"
)

// NoData is returned by FormatMinuteOfDay for a negative input, used when
// an average has no samples.
const NoData = "--:--"

// ParseClock converts a zero-padded "HH:MM" string to a minute of day.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinuteOfDay returns the wall-clock minute of day of t in its location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatMinuteOfDay renders a minute of day as "HH:MM". Negative values
// render as NoData.
func FormatMinuteOfDay(m int) string {
	if m < 0 {
		return NoData
	}
	m = m % (24 * 60)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MonthSpan returns the first day of the month and the first day of the
// next month in loc, the half-open [from, to) range used for monthly
// queries.
func MonthSpan(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// ShowingLabel renders the "Showing X-Y of Z entries" pagination line.
func ShowingLabel(start, end int, total int64) string {
	return fmt.Sprintf("Showing %d-%d of %d entries", start, end, total)
}

// WorkingDays counts the weekdays (Monday through Friday) of a calendar
// month. Public holidays are not considered.
func WorkingDays(year int, month time.Month, loc *time.Location) int {
	from, to := MonthSpan(year, month, loc)
	count := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
