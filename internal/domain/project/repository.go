package project

import "context"

// ProjectRepository reads the project directory.
type ProjectRepository interface {
	// GetByID retrieves a project with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (Project, error)

	// GetMembers retrieves the member roster of a project.
	GetMembers(ctx context.Context, projectID string, companyID string) ([]Member, error)
}
