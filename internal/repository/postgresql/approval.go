package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/approval"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/database"
)

type approvalRepository struct {
	db *database.DB
}

// ListPending implements approval.ApprovalRepository. Each entry is joined to
// the project it was assigned to on its work date; the oldest assignment wins
// when windows overlap, matching how work settings resolve.
func (r *approvalRepository) ListPending(ctx context.Context, companyID string, filter approval.PendingFilter) ([]approval.PendingRow, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "t.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	status := "PENDING"
	if filter.Status != nil && *filter.Status != "" {
		status = strings.ToUpper(*filter.Status)
	}
	baseWhere += fmt.Sprintf(" AND t.status = $%d", argIdx)
	args = append(args, status)
	argIdx++

	if filter.UserName != nil && *filter.UserName != "" {
		baseWhere += fmt.Sprintf(" AND u.name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.UserName+"%")
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
	if filter.ProjectID != nil && *filter.ProjectID != "" {
		baseWhere += fmt.Sprintf(" AND pa.project_id = $%d", argIdx)
		args = append(args, *filter.ProjectID)
		argIdx++
	}

	fromClause := `
		FROM time_entries t
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN LATERAL (
			SELECT a.project_id
			FROM project_assignments a
			WHERE a.user_id = t.user_id
			  AND a.is_active = TRUE
			  AND a.start_date <= t.date
			  AND (a.end_date IS NULL OR a.end_date >= t.date)
			ORDER BY a.created_at ASC
			LIMIT 1
		) pa ON TRUE
		LEFT JOIN projects p ON p.id = pa.project_id
	`

	countQuery := `SELECT COUNT(*)` + fromClause + `WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending entries: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, pa.project_id, p.name AS project_name
		%s
		WHERE %s
		ORDER BY p.name ASC NULLS LAST, t.date ASC, u.name ASC
		LIMIT $%d OFFSET $%d
	`, timeEntryColumns, fromClause, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query pending entries: %w", err)
	}
	defer rows.Close()

	var result []approval.PendingRow
	for rows.Next() {
		var row approval.PendingRow
		err := rows.Scan(
			&row.Entry.ID, &row.Entry.UserID, &row.Entry.CompanyID, &row.Entry.Date,
			&row.Entry.ClockIn, &row.Entry.ClockOut,
			&row.Entry.BreakMinutes, &row.Entry.WorkedHours, &row.Entry.Status,
			&row.Entry.Note, &row.Entry.Location,
			&row.Entry.LeaveType, &row.Entry.TransportationCost,
			&row.Entry.ApprovedBy, &row.Entry.ApprovedAt, &row.Entry.RejectionReason,
			&row.Entry.CreatedAt, &row.Entry.UpdatedAt,
			&row.Entry.UserName,
			&row.ProjectID, &row.ProjectName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan pending entry: %w", err)
		}
		result = append(result, row)
	}

	return result, total, nil
}

// MemberAggregates implements approval.ApprovalRepository.
func (r *approvalRepository) MemberAggregates(ctx context.Context, companyID string, from, to time.Time) ([]approval.MemberAggregate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			u.id,
			u.name,
			COUNT(t.id) FILTER (WHERE t.clock_in IS NOT NULL) AS work_days,
			COALESCE(SUM(t.worked_hours), 0) AS work_hours,
			COUNT(t.id) FILTER (WHERE t.status = 'PENDING') AS pending_count,
			COUNT(t.id) FILTER (WHERE t.status = 'APPROVED') AS approved_count
		FROM users u
		LEFT JOIN time_entries t
			ON t.user_id = u.id AND t.date >= $2 AND t.date < $3
		WHERE u.company_id = $1
		GROUP BY u.id, u.name
		ORDER BY u.name ASC
	`

	rows, err := q.Query(ctx, query, companyID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query member aggregates: %w", err)
	}
	defer rows.Close()

	var aggregates []approval.MemberAggregate
	for rows.Next() {
		var a approval.MemberAggregate
		if err := rows.Scan(&a.UserID, &a.UserName, &a.WorkDays, &a.WorkHours, &a.PendingCount, &a.ApprovedCount); err != nil {
			return nil, fmt.Errorf("failed to scan member aggregate: %w", err)
		}
		aggregates = append(aggregates, a)
	}

	return aggregates, nil
}

// ListProjectsWithMembers implements approval.ApprovalRepository.
func (r *approvalRepository) ListProjectsWithMembers(ctx context.Context, companyID string) ([]approval.ProjectMembers, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.name, COALESCE(ARRAY_AGG(pm.user_id) FILTER (WHERE pm.user_id IS NOT NULL), '{}')
		FROM projects p
		LEFT JOIN project_members pm ON pm.project_id = p.id
		WHERE p.company_id = $1
		GROUP BY p.id, p.name
		ORDER BY p.name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects with members: %w", err)
	}
	defer rows.Close()

	var projects []approval.ProjectMembers
	for rows.Next() {
		var p approval.ProjectMembers
		if err := rows.Scan(&p.ProjectID, &p.ProjectName, &p.MemberUserIDs); err != nil {
			return nil, fmt.Errorf("failed to scan project members: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, nil
}

func NewApprovalRepository(db *database.DB) approval.ApprovalRepository {
	return &approvalRepository{db: db}
}
