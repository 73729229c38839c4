package approval

import (
	"context"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
)

// ApprovalService governs the PENDING → APPROVED/REJECTED lifecycle.
// Transitions are reversible only by a new clock-in/out cycle, never by a
// direct status edit.
type ApprovalService interface {
	Approve(ctx context.Context, actor user.Actor, entryID string) (timeentry.EntryResponse, error)
	Reject(ctx context.Context, actor user.Actor, entryID string, req RejectRequest) (timeentry.EntryResponse, error)

	Bulk(ctx context.Context, actor user.Actor, req BulkRequest) (BulkResult, error)
	BulkByMember(ctx context.Context, actor user.Actor, memberUserID string, req MemberBulkRequest) (MemberBulkResult, error)

	ListPending(ctx context.Context, actor user.Actor, filter PendingFilter) (PendingListResponse, error)
	ProjectSummaries(ctx context.Context, actor user.Actor, year, month int) ([]ProjectSummary, error)
}
