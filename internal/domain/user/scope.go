package user

// ScopeKind discriminates the visibility scope of a read.
type ScopeKind int

const (
	// ScopeAll has no row restriction. Reserved for internal jobs; requests
	// never resolve to it.
	ScopeAll ScopeKind = iota
	// ScopeCompany restricts rows to one company.
	ScopeCompany
	// ScopeUser restricts rows to one user within one company.
	ScopeUser
)

// Scope is the tagged variant resolved once per request and passed
// explicitly into aggregator and workflow calls, replacing ad hoc
// role-based where-clause assembly.
type Scope struct {
	Kind      ScopeKind
	CompanyID string
	UserID    string
}

func CompanyScoped(companyID string) Scope {
	return Scope{Kind: ScopeCompany, CompanyID: companyID}
}

func UserScoped(companyID, userID string) Scope {
	return Scope{Kind: ScopeUser, CompanyID: companyID, UserID: userID}
}

// ScopeFor derives the widest scope the actor's role allows.
func ScopeFor(a Actor) Scope {
	if a.CanViewCompany() {
		return CompanyScoped(a.CompanyID)
	}
	return UserScoped(a.CompanyID, a.UserID)
}
