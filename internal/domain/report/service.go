package report

import (
	"context"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
)

// ReportService assembles export snapshots and invokes a renderer.
// Project exports are gated on full approval of every member's period.
type ReportService interface {
	ExportMember(ctx context.Context, actor user.Actor, memberUserID string, year, month int, format string) (Artifact, error)
	ExportProject(ctx context.Context, actor user.Actor, projectID string, year, month int, format string) (Artifact, error)
}
