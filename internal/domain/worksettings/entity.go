package worksettings

import "time"

// UserSettings is a user's personal default schedule.
type UserSettings struct {
	ID                     string
	UserID                 string
	CompanyID              string
	WorkStartTime          string // "HH:MM"
	WorkEndTime            string // "HH:MM"
	BreakMinutes           int
	OvertimeThresholdHours float64
	TimeIntervalMinutes    int
	TransportationCost     int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ProjectSettings is a project-level schedule. Members are attached through
// Assignment windows; while a member has an active window covering a date,
// the project schedule overrides their personal default.
type ProjectSettings struct {
	ID                     string
	ProjectID              string
	ProjectName            string
	CompanyID              string
	WorkStartTime          string
	WorkEndTime            string
	BreakMinutes           int
	OvertimeThresholdHours float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Assignment attaches a user to a ProjectSettings for a date window.
// EndDate nil means open ended.
type Assignment struct {
	ID                string
	ProjectSettingsID string
	UserID            string
	StartDate         time.Time
	EndDate           *time.Time
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProjectSchedule pairs a project setting with the assignment window that
// attaches a user to it.
type ProjectSchedule struct {
	Settings ProjectSettings
	Window   Assignment
}

// Covers reports whether the assignment window is active on date.
func (a Assignment) Covers(date time.Time) bool {
	if !a.IsActive {
		return false
	}
	day := date.Truncate(24 * time.Hour)
	if day.Before(a.StartDate.Truncate(24 * time.Hour)) {
		return false
	}
	if a.EndDate == nil {
		return true
	}
	return !day.After(a.EndDate.Truncate(24 * time.Hour))
}

type Source string

const (
	SourceProject  Source = "project"
	SourcePersonal Source = "personal"
	SourceDefault  Source = "default"
)

// Effective is the resolved schedule for one (user, date). It is a computed
// projection, never stored.
type Effective struct {
	WorkStartTime          string
	WorkEndTime            string
	BreakMinutes           int
	OvertimeThresholdHours float64
	TimeIntervalMinutes    int
	TransportationCost     int
	Source                 Source
	ProjectName            *string
	// AssignmentConflict is set when more than one project assignment was
	// active for the date. The first by creation order still wins, but the
	// condition is a data-integrity violation callers should surface.
	AssignmentConflict bool
}

// Defaults returns the system fallback schedule used when a user has
// neither personal nor project settings.
func Defaults() Effective {
	return Effective{
		WorkStartTime:          "09:00",
		WorkEndTime:            "18:00",
		BreakMinutes:           60,
		OvertimeThresholdHours: 8,
		TimeIntervalMinutes:    15,
		TransportationCost:     0,
		Source:                 SourceDefault,
	}
}
