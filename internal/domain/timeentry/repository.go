package timeentry

import (
	"context"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
)

// ClockOutUpdate is applied as one atomic statement: the worked-hours
// write and the status reset to PENDING must never be separate steps.
type ClockOutUpdate struct {
	ClockOut    time.Time
	WorkedHours float64
	Location    *string
	Note        *string
}

// TimeEntryRepository persists attendance records. Mutations touch exactly
// one row; bulk status transitions run as one bounded statement.
type TimeEntryRepository interface {
	// Create inserts a new entry, status PENDING.
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	// GetByID retrieves an entry with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (TimeEntry, error)

	// GetByUserAndDate retrieves a user's entry for one date, or nil when
	// none exists. Used to decide create-vs-overwrite on clock-in.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*TimeEntry, error)

	// RecordClockIn overwrites the clock-in timestamp of an existing entry,
	// clears any prior clock-out and worked hours, and resets status to
	// PENDING, all in the same statement. The entry re-enters the open
	// session state so the new cycle can clock out. Closed break records
	// are kept; the next clock-out nets them out again.
	RecordClockIn(ctx context.Context, id string, clockIn time.Time, location, note *string) error

	// RecordClockOut applies a ClockOutUpdate and resets status to PENDING
	// atomically. Fails with ErrAlreadyClockedOut when clock_out is set.
	RecordClockOut(ctx context.Context, id string, upd ClockOutUpdate) error

	// UpdateBreakTotals stores the re-summed break minutes and recomputed
	// worked hours, resetting status to PENDING.
	UpdateBreakTotals(ctx context.Context, id string, breakMinutes int, workedHours float64) error

	// SetStatus transitions one PENDING entry to APPROVED or REJECTED.
	// Returns ErrEntryNotPending when the entry exists but is not PENDING.
	SetStatus(ctx context.Context, id string, companyID string, status string, approverID string, reason *string) error

	// BulkSetStatusByIDs transitions the given PENDING entries and returns
	// the ids actually transitioned. Non-pending or foreign rows are
	// skipped, not errored; callers reconcile against the input.
	BulkSetStatusByIDs(ctx context.Context, ids []string, companyID string, status string, approverID string, reason *string) ([]string, error)

	// BulkSetStatusByUserMonth transitions all of one user's PENDING
	// entries within [from, to) as a single statement and returns the
	// affected count. Idempotent: a second run affects zero rows.
	BulkSetStatusByUserMonth(ctx context.Context, userID, companyID string, from, to time.Time, status string, approverID string, reason *string) (int64, error)

	// List retrieves entries visible to the scope with filters and
	// pagination.
	List(ctx context.Context, scope user.Scope, filter Filter) ([]TimeEntry, int64, error)

	// ListForUserRange retrieves one user's entries with date in [from, to),
	// ordered by date.
	ListForUserRange(ctx context.Context, userID string, from, to time.Time) ([]TimeEntry, error)
}

// BreakRepository persists break records.
type BreakRepository interface {
	Create(ctx context.Context, rec BreakRecord) (BreakRecord, error)

	GetByID(ctx context.Context, id string) (BreakRecord, error)

	// GetOpenByEntry retrieves the open break of an entry, or nil.
	GetOpenByEntry(ctx context.Context, entryID string) (*BreakRecord, error)

	// Close stamps end_time and duration on an open break. Fails with
	// ErrBreakAlreadyClosed when end_time is already set.
	Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error

	// SumClosedMinutes re-sums the closed breaks of an entry. Always a full
	// resum, never an increment, so repeated closes cannot drift.
	SumClosedMinutes(ctx context.Context, entryID string) (int, error)

	ListByEntry(ctx context.Context, entryID string) ([]BreakRecord, error)
}
