package approval

import (
	"strings"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/validator"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkRequest struct {
	TimeEntryIDs []string `json:"time_entry_ids"`
	Action       string   `json:"action"`
	Reason       *string  `json:"reason,omitempty"`
}

func (r *BulkRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.TimeEntryIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "time_entry_ids",
			Message: "at least one time entry id is required",
		})
	}
	if r.Action == "" {
		r.Action = ActionApprove
	}
	if r.Action != ActionApprove && r.Action != ActionReject {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: approve, reject",
		})
	}
	if r.Action == ActionReject && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkFailure struct {
	TimeEntryID string `json:"time_entry_id"`
	Reason      string `json:"reason"`
}

// BulkResult reports the applied count alongside every per-row failure so
// callers can reconcile partial success.
type BulkResult struct {
	RequestedCount int           `json:"requested_count"`
	AppliedCount   int           `json:"applied_count"`
	Failures       []BulkFailure `json:"failures,omitempty"`
}

type MemberBulkRequest struct {
	Action string  `json:"action"` // approve, reject
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Reason *string `json:"reason,omitempty"`
}

func (r *MemberBulkRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Action != ActionApprove && r.Action != ActionReject {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: approve, reject",
		})
	}
	if !validator.IsValidYearMonth(r.Year, r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "year/month must form a valid period",
		})
	}
	if r.Action == ActionReject && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MemberBulkResult struct {
	UserID        string `json:"user_id"`
	Action        string `json:"action"`
	AffectedCount int64  `json:"affected_count"`
}

type PendingFilter struct {
	Status    *string `json:"status,omitempty"`
	ProjectID *string `json:"project_id,omitempty"`
	UserName  *string `json:"user_name,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PendingFilter) Validate() error {
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

	if f.Status != nil && !validator.IsInSlice(strings.ToUpper(*f.Status), timeentry.StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PENDING, APPROVED, REJECTED",
		})
	}

	for field, value := range map[string]*string{
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

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ProjectGroup is one project's slice of the pending list.
type ProjectGroup struct {
	ProjectID   *string                   `json:"project_id,omitempty"`
	ProjectName string                    `json:"project_name"`
	Entries     []timeentry.EntryResponse `json:"entries"`
}

type PendingListResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Projects   []ProjectGroup `json:"projects"`
}

// MemberSummary is one project member's monthly approval digest.
type MemberSummary struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	WorkDays      int     `json:"work_days"`
	WorkHours     float64 `json:"work_hours"`
	PendingCount  int     `json:"pending_count"`
	ApprovedCount int     `json:"approved_count"`
	ApprovalRate  float64 `json:"approval_rate"`
}

// ProjectSummary groups member digests under one project. CanExportProject
// is true only when every member has zero pending entries for the period;
// exported artifacts must never contain entries that could still change.
type ProjectSummary struct {
	ProjectID        string          `json:"project_id"`
	ProjectName      string          `json:"project_name"`
	Members          []MemberSummary `json:"members"`
	PendingTotal     int             `json:"pending_total"`
	CanExportProject bool            `json:"can_export_project"`
}
