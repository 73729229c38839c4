package timeentry

import (
	"context"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
)

// TimeEntryService is the punch state machine:
// no entry → clocked in → (breaks opened and closed) → clocked out.
type TimeEntryService interface {
	ClockIn(ctx context.Context, actor user.Actor, req ClockInRequest) (EntryResponse, error)
	ClockOut(ctx context.Context, actor user.Actor, entryID string, req ClockOutRequest) (EntryResponse, error)
	StartBreak(ctx context.Context, actor user.Actor, entryID string, req StartBreakRequest) (BreakResponse, error)
	EndBreak(ctx context.Context, actor user.Actor, breakID string) (BreakResponse, error)

	TodayStatus(ctx context.Context, actor user.Actor) (TodayStatusResponse, error)
	GetEntry(ctx context.Context, actor user.Actor, entryID string) (EntryResponse, error)
	ListEntries(ctx context.Context, scope user.Scope, filter Filter) (ListResponse, error)
}
