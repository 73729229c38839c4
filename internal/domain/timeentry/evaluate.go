package timeentry

import (
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// LateArrival is the result of comparing a clock-in against the effective
// schedule for its date.
type LateArrival struct {
	IsLate            bool
	LateMinutes       int
	ExpectedStartTime string
	ActualStartTime   string
}

// CheckLateArrival classifies a clock-in against the schedule's start time
// using minute-of-day integers. Equality is on time; only a strictly later
// arrival is late.
func CheckLateArrival(clockIn time.Time, settings worksettings.Effective) (LateArrival, error) {
	expected, err := timeutil.ParseClock(settings.WorkStartTime)
	if err != nil {
		return LateArrival{}, err
	}
	actual := timeutil.MinuteOfDay(clockIn)

	result := LateArrival{
		ExpectedStartTime: timeutil.FormatMinuteOfDay(expected),
		ActualStartTime:   timeutil.FormatMinuteOfDay(actual),
	}
	if actual > expected {
		result.IsLate = true
		result.LateMinutes = actual - expected
	}
	return result, nil
}

// WorkedHours computes the net worked hours of a completed session:
// (clockOut − clockIn) minus accumulated break minutes, floored at zero,
// rounded to two decimals.
func WorkedHours(clockIn, clockOut time.Time, breakMinutes int) float64 {
	minutes := int(clockOut.Sub(clockIn).Minutes()) - breakMinutes
	if minutes < 0 {
		minutes = 0
	}
	hours := decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
	return hours.Round(2).InexactFloat64()
}

// OvertimeHours computes per-entry overtime against the resolved threshold
// for that date.
func OvertimeHours(workedHours, thresholdHours float64) float64 {
	over := decimal.NewFromFloat(workedHours).Sub(decimal.NewFromFloat(thresholdHours))
	if over.IsNegative() {
		return 0
	}
	return over.Round(2).InexactFloat64()
}

// BreakDuration returns the whole-minute duration of a closed break.
func BreakDuration(start, end time.Time) int {
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}
