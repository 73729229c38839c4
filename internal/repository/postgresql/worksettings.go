package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/database"
)

type workSettingsRepository struct {
	db *database.DB
}

// GetUserSettings implements worksettings.WorkSettingsRepository.
func (r *workSettingsRepository) GetUserSettings(ctx context.Context, userID string) (*worksettings.UserSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, company_id,
			   to_char(work_start_time, 'HH24:MI'), to_char(work_end_time, 'HH24:MI'),
			   break_minutes, overtime_threshold_hours, time_interval_minutes,
			   transportation_cost, created_at, updated_at
		FROM user_work_settings
		WHERE user_id = $1
	`

	var s worksettings.UserSettings
	err := q.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.CompanyID,
		&s.WorkStartTime, &s.WorkEndTime,
		&s.BreakMinutes, &s.OvertimeThresholdHours, &s.TimeIntervalMinutes,
		&s.TransportationCost, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // fall through to the system default
		}
		return nil, fmt.Errorf("failed to get user work settings: %w", err)
	}

	return &s, nil
}

// ListProjectSchedules implements worksettings.WorkSettingsRepository.
// Ordered by assignment creation time: when covering windows overlap
// (a data-integrity condition), the first created wins and the resolver
// flags the conflict. Window coverage itself is checked by the resolver.
func (r *workSettingsRepository) ListProjectSchedules(ctx context.Context, userID string) ([]worksettings.ProjectSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ps.id, ps.project_id, p.name, ps.company_id,
			   to_char(ps.work_start_time, 'HH24:MI'), to_char(ps.work_end_time, 'HH24:MI'),
			   ps.break_minutes, ps.overtime_threshold_hours,
			   ps.created_at, ps.updated_at,
			   pa.id, pa.user_id, pa.start_date, pa.end_date, pa.is_active,
			   pa.created_at, pa.updated_at
		FROM project_assignments pa
		JOIN project_work_settings ps ON ps.id = pa.project_settings_id
		JOIN projects p ON p.id = ps.project_id
		WHERE pa.user_id = $1
		  AND pa.is_active
		ORDER BY pa.created_at ASC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project schedules: %w", err)
	}
	defer rows.Close()

	var schedules []worksettings.ProjectSchedule
	for rows.Next() {
		var sc worksettings.ProjectSchedule
		err := rows.Scan(
			&sc.Settings.ID, &sc.Settings.ProjectID, &sc.Settings.ProjectName, &sc.Settings.CompanyID,
			&sc.Settings.WorkStartTime, &sc.Settings.WorkEndTime,
			&sc.Settings.BreakMinutes, &sc.Settings.OvertimeThresholdHours,
			&sc.Settings.CreatedAt, &sc.Settings.UpdatedAt,
			&sc.Window.ID, &sc.Window.UserID, &sc.Window.StartDate, &sc.Window.EndDate, &sc.Window.IsActive,
			&sc.Window.CreatedAt, &sc.Window.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project schedule: %w", err)
		}
		sc.Window.ProjectSettingsID = sc.Settings.ID
		schedules = append(schedules, sc)
	}

	return schedules, nil
}

func NewWorkSettingsRepository(db *database.DB) worksettings.WorkSettingsRepository {
	return &workSettingsRepository{db: db}
}
