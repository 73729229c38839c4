package worksettings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
)

// Calendar bounds for resolvable dates. Punches and statistics periods
// always fall well inside; anything outside is caller input gone wrong.
const (
	minYear = 2000
	maxYear = 2100
)

type resolver struct {
	settingsRepo worksettings.WorkSettingsRepository
	logger       *slog.Logger
}

// Resolve implements worksettings.Resolver. Precedence is project over
// personal over system default. Overlapping assignment windows are resolved
// first-by-creation and flagged on the result.
func (r *resolver) Resolve(ctx context.Context, userID string, date time.Time) (worksettings.Effective, error) {
	if date.IsZero() || date.Year() < minYear || date.Year() > maxYear {
		return worksettings.Effective{}, worksettings.ErrInvalidDate
	}

	schedules, err := r.settingsRepo.ListProjectSchedules(ctx, userID)
	if err != nil {
		return worksettings.Effective{}, fmt.Errorf("failed to resolve project settings: %w", err)
	}

	var covering []worksettings.ProjectSettings
	for _, sc := range schedules {
		if sc.Window.Covers(date) {
			covering = append(covering, sc.Settings)
		}
	}

	userSettings, err := r.settingsRepo.GetUserSettings(ctx, userID)
	if err != nil {
		return worksettings.Effective{}, fmt.Errorf("failed to resolve user settings: %w", err)
	}

	if len(covering) > 0 {
		ps := covering[0]
		effective := worksettings.Effective{
			WorkStartTime:          ps.WorkStartTime,
			WorkEndTime:            ps.WorkEndTime,
			BreakMinutes:           ps.BreakMinutes,
			OvertimeThresholdHours: ps.OvertimeThresholdHours,
			Source:                 worksettings.SourceProject,
			ProjectName:            &ps.ProjectName,
			AssignmentConflict:     len(covering) > 1,
		}

		// Interval and transportation cost are personal-level knobs the
		// project schedule does not carry.
		defaults := worksettings.Defaults()
		effective.TimeIntervalMinutes = defaults.TimeIntervalMinutes
		effective.TransportationCost = defaults.TransportationCost
		if userSettings != nil {
			effective.TimeIntervalMinutes = userSettings.TimeIntervalMinutes
			effective.TransportationCost = userSettings.TransportationCost
		}

		if effective.AssignmentConflict {
			r.logger.Warn("overlapping project assignments",
				slog.String("user_id", userID),
				slog.String("date", date.Format("2006-01-02")),
				slog.String("winning_project", ps.ProjectName),
				slog.Int("active_count", len(covering)),
			)
		}

		return effective, nil
	}

	if userSettings != nil {
		return worksettings.Effective{
			WorkStartTime:          userSettings.WorkStartTime,
			WorkEndTime:            userSettings.WorkEndTime,
			BreakMinutes:           userSettings.BreakMinutes,
			OvertimeThresholdHours: userSettings.OvertimeThresholdHours,
			TimeIntervalMinutes:    userSettings.TimeIntervalMinutes,
			TransportationCost:     userSettings.TransportationCost,
			Source:                 worksettings.SourcePersonal,
		}, nil
	}

	return worksettings.Defaults(), nil
}

func NewResolver(settingsRepo worksettings.WorkSettingsRepository, logger *slog.Logger) worksettings.Resolver {
	return &resolver{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}
