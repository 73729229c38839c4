package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/database"
)

type timeEntryRepository struct {
	db *database.DB
}

const timeEntryColumns = `
	t.id, t.user_id, t.company_id, t.date, t.clock_in, t.clock_out,
	t.break_minutes, t.worked_hours, t.status, t.note, t.location,
	t.leave_type, t.transportation_cost,
	t.approved_by, t.approved_at, t.rejection_reason,
	t.created_at, t.updated_at,
	u.name AS user_name`

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := row.Scan(
		&e.ID, &e.UserID, &e.CompanyID, &e.Date, &e.ClockIn, &e.ClockOut,
		&e.BreakMinutes, &e.WorkedHours, &e.Status, &e.Note, &e.Location,
		&e.LeaveType, &e.TransportationCost,
		&e.ApprovedBy, &e.ApprovedAt, &e.RejectionReason,
		&e.CreatedAt, &e.UpdatedAt,
		&e.UserName,
	)
	return e, err
}

// Create implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO time_entries (
			id, user_id, company_id, date, clock_in, clock_out,
			break_minutes, worked_hours, status, note, location,
			leave_type, transportation_cost
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.CompanyID,
		entry.Date,
		entry.ClockIn,
		entry.ClockOut,
		entry.BreakMinutes,
		entry.WorkedHours,
		entry.Status,
		entry.Note,
		entry.Location,
		entry.LeaveType,
		entry.TransportationCost,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string, companyID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.id = $1 AND t.company_id = $2
	`

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry by ID: %w", err)
	}

	return entry, nil
}

// GetByUserAndDate implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1 AND t.date = $2
		LIMIT 1
	`

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, userID, date.Format("2006-01-02")))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no entry for that date yet
		}
		return nil, fmt.Errorf("failed to get time entry by user and date: %w", err)
	}

	return &entry, nil
}

// RecordClockIn implements timeentry.TimeEntryRepository. The clock-out
// clear, the worked-hours reset and the status reset all ride in the same
// statement as the timestamp write, so the entry re-enters the open
// session state atomically.
func (r *timeEntryRepository) RecordClockIn(ctx context.Context, id string, clockIn time.Time, location, note *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET clock_in = $2,
			clock_out = NULL,
			worked_hours = 0,
			location = COALESCE($3, location),
			note = COALESCE($4, note),
			status = 'PENDING',
			approved_by = NULL,
			approved_at = NULL,
			rejection_reason = NULL,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, clockIn, location, note).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.ErrEntryNotFound
		}
		return fmt.Errorf("failed to record clock-in: %w", err)
	}

	return nil
}

// RecordClockOut implements timeentry.TimeEntryRepository. Guarded on
// clock_out IS NULL so a concurrent double clock-out cannot both land.
func (r *timeEntryRepository) RecordClockOut(ctx context.Context, id string, upd timeentry.ClockOutUpdate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET clock_out = $2,
			worked_hours = $3,
			location = COALESCE($4, location),
			note = COALESCE($5, note),
			status = 'PENDING',
			approved_by = NULL,
			approved_at = NULL,
			rejection_reason = NULL,
			updated_at = NOW()
		WHERE id = $1 AND clock_out IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, upd.ClockOut, upd.WorkedHours, upd.Location, upd.Note).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.ErrAlreadyClockedOut
		}
		return fmt.Errorf("failed to record clock-out: %w", err)
	}

	return nil
}

// UpdateBreakTotals implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) UpdateBreakTotals(ctx context.Context, id string, breakMinutes int, workedHours float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET break_minutes = $2,
			worked_hours = $3,
			status = 'PENDING',
			approved_by = NULL,
			approved_at = NULL,
			rejection_reason = NULL,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, breakMinutes, workedHours).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.ErrEntryNotFound
		}
		return fmt.Errorf("failed to update break totals: %w", err)
	}

	return nil
}

// SetStatus implements timeentry.TimeEntryRepository. Only a PENDING entry
// transitions; anything else is reported as not-found or not-pending.
func (r *timeEntryRepository) SetStatus(ctx context.Context, id string, companyID string, status string, approverID string, reason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET status = $3,
			approved_by = $4,
			approved_at = NOW(),
			rejection_reason = $5,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'PENDING'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID, status, approverID, reason).Scan(&updatedID)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("failed to set time entry status: %w", err)
	}

	// Distinguish missing from already-processed.
	var current string
	err = q.QueryRow(ctx, `SELECT status FROM time_entries WHERE id = $1 AND company_id = $2`, id, companyID).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.ErrEntryNotFound
		}
		return fmt.Errorf("failed to check time entry status: %w", err)
	}
	return timeentry.ErrEntryNotPending
}

// BulkSetStatusByIDs implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) BulkSetStatusByIDs(ctx context.Context, ids []string, companyID string, status string, approverID string, reason *string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET status = $3,
			approved_by = $4,
			approved_at = NOW(),
			rejection_reason = $5,
			updated_at = NOW()
		WHERE id = ANY($1) AND company_id = $2 AND status = 'PENDING'
		RETURNING id
	`

	rows, err := q.Query(ctx, query, ids, companyID, status, approverID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk set status: %w", err)
	}
	defer rows.Close()

	var applied []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan applied id: %w", err)
		}
		applied = append(applied, id)
	}

	return applied, nil
}

// BulkSetStatusByUserMonth implements timeentry.TimeEntryRepository. One
// statement per (member, month) bounds the lock duration; re-running after
// all rows left PENDING affects zero rows.
func (r *timeEntryRepository) BulkSetStatusByUserMonth(ctx context.Context, userID, companyID string, from, to time.Time, status string, approverID string, reason *string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET status = $5,
			approved_by = $6,
			approved_at = NOW(),
			rejection_reason = $7,
			updated_at = NOW()
		WHERE user_id = $1 AND company_id = $2
		  AND date >= $3 AND date < $4
		  AND status = 'PENDING'
	`

	tag, err := q.Exec(ctx, query,
		userID, companyID,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
		status, approverID, reason,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk set status by member month: %w", err)
	}

	return tag.RowsAffected(), nil
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, scope user.Scope, filter timeentry.Filter) ([]timeentry.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	switch scope.Kind {
	case user.ScopeCompany:
		baseWhere = fmt.Sprintf("t.company_id = $%d", argIdx)
		args = append(args, scope.CompanyID)
		argIdx++
	case user.ScopeUser:
		baseWhere = fmt.Sprintf("t.company_id = $%d AND t.user_id = $%d", argIdx, argIdx+1)
		args = append(args, scope.CompanyID, scope.UserID)
		argIdx += 2
	}

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND t.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.UserName != nil && *filter.UserName != "" {
		baseWhere += fmt.Sprintf(" AND u.name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.UserName+"%")
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND t.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND t.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND t.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND t.status = $%d", argIdx)
		args = append(args, strings.ToUpper(*filter.Status))
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM time_entries t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	orderByField := "t.date"
	switch filter.SortBy {
	case "user_name":
		orderByField = "u.name"
	case "clock_in":
		orderByField = "t.clock_in"
	case "clock_out":
		orderByField = "t.clock_out"
	case "status":
		orderByField = "t.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM time_entries t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, timeEntryColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}

// ListForUserRange implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) ListForUserRange(ctx context.Context, userID string, from, to time.Time) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3
		ORDER BY t.date ASC
	`

	rows, err := q.Query(ctx, query, userID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries for user range: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}
