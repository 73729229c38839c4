package approval

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/approval"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
)

const noProjectGroup = "No Project"

type approvalService struct {
	entryRepo    timeentry.TimeEntryRepository
	approvalRepo approval.ApprovalRepository
	resolver     worksettings.Resolver
	logger       *slog.Logger
	location     *time.Location
}

// Approve implements approval.ApprovalService.
func (s *approvalService) Approve(ctx context.Context, actor user.Actor, entryID string) (timeentry.EntryResponse, error) {
	if !actor.CanApprove() {
		return timeentry.EntryResponse{}, user.ErrManagerRequired
	}

	if err := s.entryRepo.SetStatus(ctx, entryID, actor.CompanyID, timeentry.StatusApproved, actor.UserID, nil); err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.logger.Info("entry approved",
		slog.String("entry_id", entryID),
		slog.String("approver_id", actor.UserID),
	)

	return s.annotatedEntry(ctx, actor, entryID)
}

// Reject implements approval.ApprovalService.
func (s *approvalService) Reject(ctx context.Context, actor user.Actor, entryID string, req approval.RejectRequest) (timeentry.EntryResponse, error) {
	if !actor.CanApprove() {
		return timeentry.EntryResponse{}, user.ErrManagerRequired
	}
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	if err := s.entryRepo.SetStatus(ctx, entryID, actor.CompanyID, timeentry.StatusRejected, actor.UserID, &req.Reason); err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.logger.Info("entry rejected",
		slog.String("entry_id", entryID),
		slog.String("approver_id", actor.UserID),
	)

	return s.annotatedEntry(ctx, actor, entryID)
}

// Bulk implements approval.ApprovalService. Rows that cannot transition are
// collected as failures; the rest go through.
func (s *approvalService) Bulk(ctx context.Context, actor user.Actor, req approval.BulkRequest) (approval.BulkResult, error) {
	if !actor.CanApprove() {
		return approval.BulkResult{}, user.ErrManagerRequired
	}
	if err := req.Validate(); err != nil {
		return approval.BulkResult{}, err
	}

	status := timeentry.StatusApproved
	if req.Action == approval.ActionReject {
		status = timeentry.StatusRejected
	}

	applied, err := s.entryRepo.BulkSetStatusByIDs(ctx, req.TimeEntryIDs, actor.CompanyID, status, actor.UserID, req.Reason)
	if err != nil {
		return approval.BulkResult{}, err
	}

	appliedSet := make(map[string]struct{}, len(applied))
	for _, id := range applied {
		appliedSet[id] = struct{}{}
	}

	result := approval.BulkResult{
		RequestedCount: len(req.TimeEntryIDs),
		AppliedCount:   len(applied),
	}
	for _, id := range req.TimeEntryIDs {
		if _, ok := appliedSet[id]; ok {
			continue
		}
		reason := "entry is not pending"
		if _, err := s.entryRepo.GetByID(ctx, id, actor.CompanyID); errors.Is(err, timeentry.ErrEntryNotFound) {
			reason = "entry not found"
		}
		result.Failures = append(result.Failures, approval.BulkFailure{
			TimeEntryID: id,
			Reason:      reason,
		})
	}

	s.logger.Info("bulk approval processed",
		slog.String("approver_id", actor.UserID),
		slog.String("action", req.Action),
		slog.Int("requested", result.RequestedCount),
		slog.Int("applied", result.AppliedCount),
	)

	return result, nil
}

// BulkByMember implements approval.ApprovalService. One bounded statement
// covers the member's month; re-running is a no-op.
func (s *approvalService) BulkByMember(ctx context.Context, actor user.Actor, memberUserID string, req approval.MemberBulkRequest) (approval.MemberBulkResult, error) {
	if !actor.CanApprove() {
		return approval.MemberBulkResult{}, user.ErrManagerRequired
	}
	if err := req.Validate(); err != nil {
		return approval.MemberBulkResult{}, err
	}

	status := timeentry.StatusApproved
	if req.Action == approval.ActionReject {
		status = timeentry.StatusRejected
	}

	from, to := timeutil.MonthSpan(req.Year, time.Month(req.Month), s.location)
	affected, err := s.entryRepo.BulkSetStatusByUserMonth(ctx, memberUserID, actor.CompanyID, from, to, status, actor.UserID, req.Reason)
	if err != nil {
		return approval.MemberBulkResult{}, err
	}

	s.logger.Info("member month processed",
		slog.String("member_user_id", memberUserID),
		slog.String("approver_id", actor.UserID),
		slog.String("action", req.Action),
		slog.Int64("affected", affected),
	)

	return approval.MemberBulkResult{
		UserID:        memberUserID,
		Action:        req.Action,
		AffectedCount: affected,
	}, nil
}

// ListPending implements approval.ApprovalService. Entries come back grouped
// under the project whose assignment covered their date.
func (s *approvalService) ListPending(ctx context.Context, actor user.Actor, filter approval.PendingFilter) (approval.PendingListResponse, error) {
	if !actor.CanApprove() {
		return approval.PendingListResponse{}, user.ErrManagerRequired
	}
	if err := filter.Validate(); err != nil {
		return approval.PendingListResponse{}, err
	}

	rows, total, err := s.approvalRepo.ListPending(ctx, actor.CompanyID, filter)
	if err != nil {
		return approval.PendingListResponse{}, err
	}

	var groups []approval.ProjectGroup
	groupIndex := map[string]int{}
	for _, row := range rows {
		effective, err := s.resolver.Resolve(ctx, row.Entry.UserID, row.Entry.Date)
		if err != nil {
			return approval.PendingListResponse{}, err
		}
		resp, err := timeentry.BuildEntryResponse(row.Entry, effective, s.location)
		if err != nil {
			return approval.PendingListResponse{}, err
		}

		key := noProjectGroup
		name := noProjectGroup
		if row.ProjectID != nil {
			key = *row.ProjectID
			if row.ProjectName != nil {
				name = *row.ProjectName
			}
		}
		idx, ok := groupIndex[key]
		if !ok {
			groups = append(groups, approval.ProjectGroup{
				ProjectID:   row.ProjectID,
				ProjectName: name,
			})
			idx = len(groups) - 1
			groupIndex[key] = idx
		}
		groups[idx].Entries = append(groups[idx].Entries, resp)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	showing := "Showing 0 of 0 entries"
	if len(rows) > 0 {
		start := (filter.Page-1)*filter.Limit + 1
		showing = timeutil.ShowingLabel(start, start+len(rows)-1, total)
	}

	return approval.PendingListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Projects:   groups,
	}, nil
}

// ProjectSummaries implements approval.ApprovalService. A project can be
// exported only when every member has zero pending entries for the period.
func (s *approvalService) ProjectSummaries(ctx context.Context, actor user.Actor, year, month int) ([]approval.ProjectSummary, error) {
	if !actor.CanApprove() {
		return nil, user.ErrManagerRequired
	}

	from, to := timeutil.MonthSpan(year, time.Month(month), s.location)
	aggregates, err := s.approvalRepo.MemberAggregates(ctx, actor.CompanyID, from, to)
	if err != nil {
		return nil, err
	}

	projects, err := s.approvalRepo.ListProjectsWithMembers(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]approval.MemberAggregate, len(aggregates))
	for _, a := range aggregates {
		byUser[a.UserID] = a
	}

	var summaries []approval.ProjectSummary
	for _, p := range projects {
		summary := approval.ProjectSummary{
			ProjectID:        p.ProjectID,
			ProjectName:      p.ProjectName,
			CanExportProject: true,
		}
		for _, memberID := range p.MemberUserIDs {
			a, ok := byUser[memberID]
			if !ok {
				continue
			}
			rate := 0.0
			if a.WorkDays > 0 {
				rate = decimal.NewFromInt(int64(a.ApprovedCount)).
					Div(decimal.NewFromInt(int64(a.WorkDays))).
					Mul(decimal.NewFromInt(100)).
					Round(1).InexactFloat64()
			}
			summary.Members = append(summary.Members, approval.MemberSummary{
				UserID:        a.UserID,
				UserName:      a.UserName,
				WorkDays:      a.WorkDays,
				WorkHours:     a.WorkHours,
				PendingCount:  a.PendingCount,
				ApprovedCount: a.ApprovedCount,
				ApprovalRate:  rate,
			})
			summary.PendingTotal += a.PendingCount
		}
		summary.CanExportProject = summary.PendingTotal == 0
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *approvalService) annotatedEntry(ctx context.Context, actor user.Actor, entryID string) (timeentry.EntryResponse, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID, actor.CompanyID)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	effective, err := s.resolver.Resolve(ctx, entry.UserID, entry.Date)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	return timeentry.BuildEntryResponse(entry, effective, s.location)
}

func NewApprovalService(
	entryRepo timeentry.TimeEntryRepository,
	approvalRepo approval.ApprovalRepository,
	resolver worksettings.Resolver,
	logger *slog.Logger,
	location *time.Location,
) approval.ApprovalService {
	return &approvalService{
		entryRepo:    entryRepo,
		approvalRepo: approvalRepo,
		resolver:     resolver,
		logger:       logger,
		location:     location,
	}
}
