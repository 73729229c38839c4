package timeentry

import (
	"strings"

	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	Date     *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Location *string `json:"location,omitempty"`
	Note     *string `json:"note,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	Location *string `json:"location,omitempty"`
	Note     *string `json:"note,omitempty"`
}

type StartBreakRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// EntryResponse is a TimeEntry annotated at read time with the resolved
// schedule and the derived lateness/overtime metrics.
type EntryResponse struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"user_id"`
	UserName           *string  `json:"user_name,omitempty"`
	Date               string   `json:"date"`
	ClockIn            *string  `json:"clock_in,omitempty"`
	ClockOut           *string  `json:"clock_out,omitempty"`
	BreakMinutes       int      `json:"break_minutes"`
	WorkedHours        float64  `json:"worked_hours"`
	Status             string   `json:"status"`
	Note               *string  `json:"note,omitempty"`
	Location           *string  `json:"location,omitempty"`
	LeaveType          *string  `json:"leave_type,omitempty"`
	TransportationCost *int     `json:"transportation_cost,omitempty"`
	RejectionReason    *string  `json:"rejection_reason,omitempty"`
	IsLate             *bool    `json:"is_late,omitempty"`
	LateMinutes        *int     `json:"late_minutes,omitempty"`
	OvertimeHours      *float64 `json:"overtime_hours,omitempty"`
	ExpectedStartTime  *string  `json:"expected_start_time,omitempty"`
	SettingSource      string   `json:"setting_source,omitempty"`
	ProjectName        *string  `json:"project_name,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

type BreakResponse struct {
	ID              string  `json:"id"`
	TimeEntryID     string  `json:"time_entry_id"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Reason          *string `json:"reason,omitempty"`
}

type ListResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Entries    []EntryResponse `json:"entries"`
}

// TodayStatusResponse is the dashboard probe for the caller's current day.
type TodayStatusResponse struct {
	Date         string         `json:"date"`
	HasEntry     bool           `json:"has_entry"`
	Entry        *EntryResponse `json:"entry,omitempty"`
	OpenBreak    *BreakResponse `json:"open_break,omitempty"`
	CanClockIn   bool           `json:"can_clock_in"`
	CanClockOut  bool           `json:"can_clock_out"`
	CanTakeBreak bool           `json:"can_take_break"`
}

type Filter struct {
	UserID    *string `json:"user_id,omitempty"`
	UserName  *string `json:"user_name,omitempty"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, user_name, clock_in, clock_out, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(strings.ToUpper(*f.Status), StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PENDING, APPROVED, REJECTED",
		})
	}

	for field, value := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "user_name", "clock_in", "clock_out", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, user_name, clock_in, clock_out, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
