package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

var RoleValues = []string{
	string(RoleOwner),
	string(RoleManager),
	string(RoleEmployee),
}

// User is the projection of the user directory the engine consumes. Account
// management lives in the identity service.
type User struct {
	ID        string
	CompanyID string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the authenticated caller, built once per request from the JWT
// claims and threaded explicitly into services.
type Actor struct {
	UserID    string
	CompanyID string
	Role      Role
}

// CanApprove reports whether the actor may run approval transitions.
func (a Actor) CanApprove() bool {
	return a.Role == RoleOwner || a.Role == RoleManager
}

// CanViewCompany reports whether the actor may read company-wide data.
func (a Actor) CanViewCompany() bool {
	return a.Role == RoleOwner || a.Role == RoleManager
}
