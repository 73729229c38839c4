package worksettings

import "context"

// WorkSettingsRepository reads schedule configuration. The engine never
// writes settings; administration lives outside the core.
type WorkSettingsRepository interface {
	// GetUserSettings retrieves a user's personal default, or nil when the
	// user has none.
	GetUserSettings(ctx context.Context, userID string) (*UserSettings, error)

	// ListProjectSchedules retrieves the user's active project assignments
	// joined with their project settings, ordered by assignment creation
	// time. Date coverage is checked by the resolver through
	// Assignment.Covers; more than one covering window is a data-integrity
	// condition the resolver flags.
	ListProjectSchedules(ctx context.Context, userID string) ([]ProjectSchedule, error)
}
