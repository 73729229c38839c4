package timeentry

import "time"

// Approval status of a time entry. Orthogonal to the punch state: every
// entry carries a status from the moment it is created, and clock or break
// mutations reset it to PENDING.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

var StatusValues = []string{StatusPending, StatusApproved, StatusRejected}

// TimeEntry is one user's attendance record for one calendar date.
// Entries are created on clock-in and never hard-deleted by the normal
// flow; the status field encodes the lifecycle.
type TimeEntry struct {
	ID                 string
	UserID             string
	CompanyID          string
	Date               time.Time
	ClockIn            *time.Time
	ClockOut           *time.Time
	BreakMinutes       int
	WorkedHours        float64
	Status             string
	Note               *string
	Location           *string
	LeaveType          *string
	TransportationCost *int
	ApprovedBy         *string
	ApprovedAt         *time.Time
	RejectionReason    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined for read paths
	UserName *string
}

// HasOpenSession reports whether the entry is clocked in but not out.
func (e TimeEntry) HasOpenSession() bool {
	return e.ClockIn != nil && e.ClockOut == nil
}

// BreakRecord is a child of a TimeEntry. EndTime is nil while the break is
// open; at most one open break exists per entry at a time.
type BreakRecord struct {
	ID              string
	TimeEntryID     string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Reason          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b BreakRecord) IsOpen() bool {
	return b.EndTime == nil
}
