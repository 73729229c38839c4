package stats

import (
	"context"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
)

// RankingSize is the number of members on the company dashboard ranking.
const RankingSize = 5

// StatsService computes monthly and company aggregates on read.
type StatsService interface {
	// MonthlyStats rolls up one user's month. The scope must cover the
	// target user.
	MonthlyStats(ctx context.Context, scope user.Scope, userID string, year, month int) (MonthlyStats, error)

	// CompanyStats rolls up a whole company's month. Requires a company
	// scope.
	CompanyStats(ctx context.Context, scope user.Scope, year, month int) (CompanyStats, error)
}
