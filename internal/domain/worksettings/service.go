package worksettings

import (
	"context"
	"time"
)

// Resolver produces the effective schedule for one (user, date). Pure read;
// resolution is deterministic for unchanged assignments.
type Resolver interface {
	Resolve(ctx context.Context, userID string, date time.Time) (Effective, error)
}
