package timeentry

import (
	"testing"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockInAt(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", "2024-05-13 "+hhmm)
	require.NoError(t, err)
	return parsed
}

func settingsStartingAt(start string) worksettings.Effective {
	s := worksettings.Defaults()
	s.WorkStartTime = start
	return s
}

func TestCheckLateArrival(t *testing.T) {
	cases := []struct {
		name        string
		workStart   string
		clockIn     string
		wantLate    bool
		wantMinutes int
	}{
		{"one minute early", "10:00", "09:59", false, 0},
		{"exactly on time", "10:00", "10:00", false, 0},
		{"one minute late", "10:00", "10:01", true, 1},
		{"well early", "09:00", "08:30", false, 0},
		{"just late", "09:00", "09:01", true, 1},
		{"very late", "09:00", "13:30", true, 270},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := CheckLateArrival(clockInAt(t, c.clockIn), settingsStartingAt(c.workStart))
			require.NoError(t, err)
			assert.Equal(t, c.wantLate, got.IsLate)
			assert.Equal(t, c.wantMinutes, got.LateMinutes)
			assert.Equal(t, c.workStart, got.ExpectedStartTime)
			assert.Equal(t, c.clockIn, got.ActualStartTime)
		})
	}
}

func TestCheckLateArrival_InvalidSchedule(t *testing.T) {
	_, err := CheckLateArrival(clockInAt(t, "09:00"), settingsStartingAt("9am"))
	assert.Error(t, err)
}

func TestWorkedHours(t *testing.T) {
	in := clockInAt(t, "09:00")

	cases := []struct {
		name         string
		clockOut     string
		breakMinutes int
		want         float64
	}{
		{"full day with lunch", "18:00", 60, 8},
		{"no break", "17:30", 0, 8.5},
		{"break exceeds session", "09:30", 60, 0},
		{"quarter hour", "09:15", 0, 0.25},
		{"uneven minutes", "17:50", 45, 8.08},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WorkedHours(in, clockInAt(t, c.clockOut), c.breakMinutes)
			assert.InDelta(t, c.want, got, 0.001)
		})
	}
}

func TestOvertimeHours(t *testing.T) {
	assert.Equal(t, 0.0, OvertimeHours(7.5, 8))
	assert.Equal(t, 0.0, OvertimeHours(8, 8))
	assert.InDelta(t, 1.25, OvertimeHours(9.25, 8), 0.001)
	// The threshold comes from resolved settings, not a constant.
	assert.InDelta(t, 3.0, OvertimeHours(9, 6), 0.001)
}

func TestBreakDuration(t *testing.T) {
	start := clockInAt(t, "12:00")
	assert.Equal(t, 45, BreakDuration(start, clockInAt(t, "12:45")))
	assert.Equal(t, 0, BreakDuration(start, start))
	// Whole minutes: seconds are truncated.
	assert.Equal(t, 1, BreakDuration(start, start.Add(119*time.Second)))
}
