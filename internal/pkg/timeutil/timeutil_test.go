package timeutil

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"00:00", 0, true},
		{"09:00", 540, true},
		{"10:00", 600, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"9am", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := ParseClock(c.input)
		if c.ok != (err == nil) {
			t.Errorf("ParseClock(%q) err = %v, want ok=%v", c.input, err, c.ok)
			continue
		}
		if c.ok && got != c.want {
			t.Errorf("ParseClock(%q) = %d, want %d", c.input, got, c.want)
		}
	}
}

func TestFormatMinuteOfDay(t *testing.T) {
	cases := []struct {
		input int
		want  string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{599, "09:59"},
		{1439, "23:59"},
		{-1, NoData},
	}
	for _, c := range cases {
		if got := FormatMinuteOfDay(c.input); got != c.want {
			t.Errorf("FormatMinuteOfDay(%d) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	ts := time.Date(2024, 5, 13, 9, 45, 59, 0, time.UTC)
	if got := MinuteOfDay(ts); got != 585 {
		t.Errorf("MinuteOfDay = %d, want 585", got)
	}
}

func TestWorkingDays(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.May, 23},      // 31 days, 8 weekend days
		{2024, time.June, 20},     // starts on a Saturday
		{2024, time.February, 21}, // leap February
	}
	for _, c := range cases {
		if got := WorkingDays(c.year, c.month, time.UTC); got != c.want {
			t.Errorf("WorkingDays(%d, %s) = %d, want %d", c.year, c.month, got, c.want)
		}
	}
}

func TestMonthSpan(t *testing.T) {
	from, to := MonthSpan(2024, time.December, time.UTC)
	if !from.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if !to.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v", to)
	}
}
