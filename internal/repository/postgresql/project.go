package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/project"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/database"
)

type projectRepository struct {
	db *database.DB
}

// GetByID implements project.ProjectRepository.
func (r *projectRepository) GetByID(ctx context.Context, id string, companyID string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, created_at, updated_at
		FROM projects
		WHERE id = $1 AND company_id = $2
	`

	var p project.Project
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project by ID: %w", err)
	}

	return p, nil
}

// GetMembers implements project.ProjectRepository.
func (r *projectRepository) GetMembers(ctx context.Context, projectID string, companyID string) ([]project.Member, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pm.user_id, u.name, pm.is_manager
		FROM project_members pm
		JOIN projects p ON p.id = pm.project_id
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1 AND p.company_id = $2
		ORDER BY u.name ASC
	`

	rows, err := q.Query(ctx, query, projectID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project members: %w", err)
	}
	defer rows.Close()

	var members []project.Member
	for rows.Next() {
		var m project.Member
		if err := rows.Scan(&m.UserID, &m.UserName, &m.IsManager); err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, m)
	}

	return members, nil
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepository{db: db}
}
