package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/database"
)

type breakRepository struct {
	db *database.DB
}

const breakColumns = `
	id, time_entry_id, start_time, end_time, duration_minutes, reason,
	created_at, updated_at`

func scanBreakRecord(row pgx.Row) (timeentry.BreakRecord, error) {
	var b timeentry.BreakRecord
	err := row.Scan(
		&b.ID, &b.TimeEntryID, &b.StartTime, &b.EndTime, &b.DurationMinutes,
		&b.Reason, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements timeentry.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, rec timeentry.BreakRecord) (timeentry.BreakRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	query := `
		INSERT INTO break_records (id, time_entry_id, start_time, end_time, duration_minutes, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.TimeEntryID,
		rec.StartTime,
		rec.EndTime,
		rec.DurationMinutes,
		rec.Reason,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return timeentry.BreakRecord{}, fmt.Errorf("failed to create break record: %w", err)
	}

	return rec, nil
}

// GetByID implements timeentry.BreakRepository.
func (r *breakRepository) GetByID(ctx context.Context, id string) (timeentry.BreakRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + ` FROM break_records WHERE id = $1`

	rec, err := scanBreakRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.BreakRecord{}, timeentry.ErrBreakNotFound
		}
		return timeentry.BreakRecord{}, fmt.Errorf("failed to get break record by ID: %w", err)
	}

	return rec, nil
}

// GetOpenByEntry implements timeentry.BreakRepository.
func (r *breakRepository) GetOpenByEntry(ctx context.Context, entryID string) (*timeentry.BreakRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM break_records
		WHERE time_entry_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`

	rec, err := scanBreakRecord(q.QueryRow(ctx, query, entryID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open break record: %w", err)
	}

	return &rec, nil
}

// Close implements timeentry.BreakRepository. Guarded on end_time IS NULL so
// closing an already-closed break fails instead of rewriting it.
func (r *breakRepository) Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_records
		SET end_time = $2, duration_minutes = $3, updated_at = NOW()
		WHERE id = $1 AND end_time IS NULL
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, endTime, durationMinutes).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.ErrBreakAlreadyClosed
		}
		return fmt.Errorf("failed to close break record: %w", err)
	}

	return nil
}

// SumClosedMinutes implements timeentry.BreakRepository.
func (r *breakRepository) SumClosedMinutes(ctx context.Context, entryID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM break_records
		WHERE time_entry_id = $1 AND end_time IS NOT NULL
	`

	var total int
	if err := q.QueryRow(ctx, query, entryID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum closed break minutes: %w", err)
	}

	return total, nil
}

// ListByEntry implements timeentry.BreakRepository.
func (r *breakRepository) ListByEntry(ctx context.Context, entryID string) ([]timeentry.BreakRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM break_records
		WHERE time_entry_id = $1
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list break records: %w", err)
	}
	defer rows.Close()

	var records []timeentry.BreakRecord
	for rows.Next() {
		rec, err := scanBreakRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func NewBreakRepository(db *database.DB) timeentry.BreakRepository {
	return &breakRepository{db: db}
}
