package user

import "context"

// UserRepository reads the user directory. All lookups are company scoped
// to prevent cross-company access.
type UserRepository interface {
	// GetByID retrieves a user with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (User, error)

	// ListByCompany retrieves all users of a company.
	ListByCompany(ctx context.Context, companyID string) ([]User, error)
}
