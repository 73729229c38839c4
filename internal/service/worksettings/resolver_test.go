package worksettings

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	userSettings *worksettings.UserSettings
	schedules    []worksettings.ProjectSchedule
	err          error
}

func (f *fakeSettingsRepo) GetUserSettings(ctx context.Context, userID string) (*worksettings.UserSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userSettings, nil
}

func (f *fakeSettingsRepo) ListProjectSchedules(ctx context.Context, userID string) ([]worksettings.ProjectSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedules, nil
}

// openSchedule wraps settings in an active open-ended assignment window.
func openSchedule(s worksettings.ProjectSettings) worksettings.ProjectSchedule {
	return worksettings.ProjectSchedule{
		Settings: s,
		Window: worksettings.Assignment{
			UserID:    "user-1",
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			IsActive:  true,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve_SystemDefaults(t *testing.T) {
	r := NewResolver(&fakeSettingsRepo{}, testLogger())

	effective, err := r.Resolve(context.Background(), "user-1", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "09:00", effective.WorkStartTime)
	assert.Equal(t, "18:00", effective.WorkEndTime)
	assert.Equal(t, 60, effective.BreakMinutes)
	assert.Equal(t, 8.0, effective.OvertimeThresholdHours)
	assert.Equal(t, 15, effective.TimeIntervalMinutes)
	assert.Equal(t, worksettings.SourceDefault, effective.Source)
	assert.Nil(t, effective.ProjectName)
	assert.False(t, effective.AssignmentConflict)
}

func TestResolve_PersonalOverridesDefault(t *testing.T) {
	repo := &fakeSettingsRepo{
		userSettings: &worksettings.UserSettings{
			WorkStartTime:          "10:00",
			WorkEndTime:            "19:00",
			BreakMinutes:           45,
			OvertimeThresholdHours: 7.5,
			TimeIntervalMinutes:    30,
			TransportationCost:     500,
		},
	}
	r := NewResolver(repo, testLogger())

	effective, err := r.Resolve(context.Background(), "user-1", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "10:00", effective.WorkStartTime)
	assert.Equal(t, 45, effective.BreakMinutes)
	assert.Equal(t, 7.5, effective.OvertimeThresholdHours)
	assert.Equal(t, 500, effective.TransportationCost)
	assert.Equal(t, worksettings.SourcePersonal, effective.Source)
}

func TestResolve_ProjectOverridesPersonal(t *testing.T) {
	repo := &fakeSettingsRepo{
		userSettings: &worksettings.UserSettings{
			WorkStartTime:          "09:00",
			WorkEndTime:            "18:00",
			BreakMinutes:           60,
			OvertimeThresholdHours: 8,
			TimeIntervalMinutes:    30,
			TransportationCost:     500,
		},
		schedules: []worksettings.ProjectSchedule{
			openSchedule(worksettings.ProjectSettings{
				ProjectID:              "proj-1",
				ProjectName:            "Night Shift",
				WorkStartTime:          "10:00",
				WorkEndTime:            "19:00",
				BreakMinutes:           45,
				OvertimeThresholdHours: 7,
			}),
		},
	}
	r := NewResolver(repo, testLogger())

	effective, err := r.Resolve(context.Background(), "user-1", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "10:00", effective.WorkStartTime)
	assert.Equal(t, "19:00", effective.WorkEndTime)
	assert.Equal(t, 45, effective.BreakMinutes)
	assert.Equal(t, 7.0, effective.OvertimeThresholdHours)
	assert.Equal(t, worksettings.SourceProject, effective.Source)
	require.NotNil(t, effective.ProjectName)
	assert.Equal(t, "Night Shift", *effective.ProjectName)
	assert.False(t, effective.AssignmentConflict)

	// Personal-level knobs still come from the user settings.
	assert.Equal(t, 30, effective.TimeIntervalMinutes)
	assert.Equal(t, 500, effective.TransportationCost)
}

func TestResolve_OverlappingAssignmentsFlagged(t *testing.T) {
	repo := &fakeSettingsRepo{
		schedules: []worksettings.ProjectSchedule{
			openSchedule(worksettings.ProjectSettings{ProjectID: "proj-1", ProjectName: "First", WorkStartTime: "08:00", WorkEndTime: "17:00", BreakMinutes: 60, OvertimeThresholdHours: 8}),
			openSchedule(worksettings.ProjectSettings{ProjectID: "proj-2", ProjectName: "Second", WorkStartTime: "11:00", WorkEndTime: "20:00", BreakMinutes: 30, OvertimeThresholdHours: 8}),
		},
	}
	r := NewResolver(repo, testLogger())

	effective, err := r.Resolve(context.Background(), "user-1", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// First by creation order wins.
	assert.Equal(t, "08:00", effective.WorkStartTime)
	require.NotNil(t, effective.ProjectName)
	assert.Equal(t, "First", *effective.ProjectName)
	assert.True(t, effective.AssignmentConflict)
}

func TestResolve_WindowOutsideDateIgnored(t *testing.T) {
	ended := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	repo := &fakeSettingsRepo{
		userSettings: &worksettings.UserSettings{
			WorkStartTime:          "09:00",
			WorkEndTime:            "18:00",
			BreakMinutes:           60,
			OvertimeThresholdHours: 8,
			TimeIntervalMinutes:    15,
		},
		schedules: []worksettings.ProjectSchedule{
			// Window ended before the date being resolved.
			{
				Settings: worksettings.ProjectSettings{ProjectID: "proj-1", ProjectName: "Ended", WorkStartTime: "07:00", WorkEndTime: "16:00", BreakMinutes: 30, OvertimeThresholdHours: 8},
				Window: worksettings.Assignment{
					UserID:    "user-1",
					StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   &ended,
					IsActive:  true,
				},
			},
			// Window starts after the date being resolved.
			{
				Settings: worksettings.ProjectSettings{ProjectID: "proj-2", ProjectName: "Future", WorkStartTime: "11:00", WorkEndTime: "20:00", BreakMinutes: 30, OvertimeThresholdHours: 8},
				Window: worksettings.Assignment{
					UserID:    "user-1",
					StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
					IsActive:  true,
				},
			},
		},
	}
	r := NewResolver(repo, testLogger())

	effective, err := r.Resolve(context.Background(), "user-1", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, worksettings.SourcePersonal, effective.Source)
	assert.Equal(t, "09:00", effective.WorkStartTime)
	assert.Nil(t, effective.ProjectName)
	assert.False(t, effective.AssignmentConflict)
}

func TestResolve_DateOutsideCalendarRange(t *testing.T) {
	r := NewResolver(&fakeSettingsRepo{}, testLogger())

	for _, date := range []time.Time{
		{},
		time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2101, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := r.Resolve(context.Background(), "user-1", date)
		assert.ErrorIs(t, err, worksettings.ErrInvalidDate)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	repo := &fakeSettingsRepo{
		userSettings: &worksettings.UserSettings{
			WorkStartTime: "09:30", WorkEndTime: "18:30",
			BreakMinutes: 60, OvertimeThresholdHours: 8, TimeIntervalMinutes: 15,
		},
	}
	r := NewResolver(repo, testLogger())

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	first, err := r.Resolve(context.Background(), "user-1", date)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "user-1", date)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
