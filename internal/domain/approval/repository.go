package approval

import (
	"context"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
)

// PendingRow is a time entry joined with the project of the assignment
// active on the entry's date, when any.
type PendingRow struct {
	Entry       timeentry.TimeEntry
	ProjectID   *string
	ProjectName *string
}

// MemberAggregate is one user's monthly roll-up used by project summaries.
type MemberAggregate struct {
	UserID        string
	UserName      string
	WorkDays      int
	WorkHours     float64
	PendingCount  int
	ApprovedCount int
}

// ProjectMembers is a project with its member roster, used to slice member
// aggregates per project.
type ProjectMembers struct {
	ProjectID     string
	ProjectName   string
	MemberUserIDs []string
}

// ApprovalRepository is the approval workflow's read side. Mutations go
// through timeentry.TimeEntryRepository.
type ApprovalRepository interface {
	// ListPending retrieves entries matching the filter, project joined,
	// ordered by project then date.
	ListPending(ctx context.Context, companyID string, filter PendingFilter) ([]PendingRow, int64, error)

	// MemberAggregates rolls up every company member's entries with date
	// in [from, to).
	MemberAggregates(ctx context.Context, companyID string, from, to time.Time) ([]MemberAggregate, error)

	// ListProjectsWithMembers retrieves the company's projects with their
	// member rosters, ordered by project name.
	ListProjectsWithMembers(ctx context.Context, companyID string) ([]ProjectMembers, error)
}
