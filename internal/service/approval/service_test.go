package approval

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/approval"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntryRepo struct {
	timeentry.TimeEntryRepository
	entries map[string]timeentry.TimeEntry
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id, companyID string) (timeentry.TimeEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.CompanyID != companyID {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryRepo) SetStatus(ctx context.Context, id, companyID, status, approverID string, reason *string) error {
	e, ok := f.entries[id]
	if !ok || e.CompanyID != companyID {
		return timeentry.ErrEntryNotFound
	}
	if e.Status != timeentry.StatusPending {
		return timeentry.ErrEntryNotPending
	}
	e.Status = status
	e.ApprovedBy = &approverID
	e.RejectionReason = reason
	f.entries[id] = e
	return nil
}

func (f *fakeEntryRepo) BulkSetStatusByIDs(ctx context.Context, ids []string, companyID, status, approverID string, reason *string) ([]string, error) {
	var applied []string
	for _, id := range ids {
		if err := f.SetStatus(ctx, id, companyID, status, approverID, reason); err == nil {
			applied = append(applied, id)
		}
	}
	return applied, nil
}

func (f *fakeEntryRepo) BulkSetStatusByUserMonth(ctx context.Context, userID, companyID string, from, to time.Time, status, approverID string, reason *string) (int64, error) {
	var count int64
	for id, e := range f.entries {
		if e.UserID == userID && e.CompanyID == companyID && e.Status == timeentry.StatusPending &&
			!e.Date.Before(from) && e.Date.Before(to) {
			e.Status = status
			e.ApprovedBy = &approverID
			f.entries[id] = e
			count++
		}
	}
	return count, nil
}

type fakeApprovalRepo struct {
	rows       []approval.PendingRow
	aggregates []approval.MemberAggregate
	projects   []approval.ProjectMembers
}

func (f *fakeApprovalRepo) ListPending(ctx context.Context, companyID string, filter approval.PendingFilter) ([]approval.PendingRow, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeApprovalRepo) MemberAggregates(ctx context.Context, companyID string, from, to time.Time) ([]approval.MemberAggregate, error) {
	return f.aggregates, nil
}

func (f *fakeApprovalRepo) ListProjectsWithMembers(ctx context.Context, companyID string) ([]approval.ProjectMembers, error) {
	return f.projects, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, userID string, date time.Time) (worksettings.Effective, error) {
	return worksettings.Defaults(), nil
}

var (
	manager  = user.Actor{UserID: "mgr-1", CompanyID: "company-1", Role: user.RoleManager}
	employee = user.Actor{UserID: "emp-1", CompanyID: "company-1", Role: user.RoleEmployee}
)

func pendingEntry(id, userID string, day int) timeentry.TimeEntry {
	in := time.Date(2024, 6, day, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	return timeentry.TimeEntry{
		ID:          id,
		UserID:      userID,
		CompanyID:   "company-1",
		Date:        time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		ClockIn:     &in,
		ClockOut:    &out,
		WorkedHours: 8,
		Status:      timeentry.StatusPending,
	}
}

func newService(entryRepo *fakeEntryRepo, approvalRepo *fakeApprovalRepo) *approvalService {
	return &approvalService{
		entryRepo:    entryRepo,
		approvalRepo: approvalRepo,
		resolver:     fakeResolver{},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		location:     time.UTC,
	}
}

func TestApprove(t *testing.T) {
	repo := &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{
		"e1": pendingEntry("e1", "emp-1", 3),
	}}
	svc := newService(repo, &fakeApprovalRepo{})

	resp, err := svc.Approve(context.Background(), manager, "e1")
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusApproved, resp.Status)
}

func TestApprove_EmployeeDenied(t *testing.T) {
	repo := &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{
		"e1": pendingEntry("e1", "emp-1", 3),
	}}
	svc := newService(repo, &fakeApprovalRepo{})

	_, err := svc.Approve(context.Background(), employee, "e1")
	assert.ErrorIs(t, err, user.ErrManagerRequired)
}

func TestApprove_NonPending(t *testing.T) {
	entry := pendingEntry("e1", "emp-1", 3)
	entry.Status = timeentry.StatusApproved
	repo := &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{"e1": entry}}
	svc := newService(repo, &fakeApprovalRepo{})

	_, err := svc.Approve(context.Background(), manager, "e1")
	assert.ErrorIs(t, err, timeentry.ErrEntryNotPending)
}

func TestReject_RequiresReason(t *testing.T) {
	repo := &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{
		"e1": pendingEntry("e1", "emp-1", 3),
	}}
	svc := newService(repo, &fakeApprovalRepo{})

	_, err := svc.Reject(context.Background(), manager, "e1", approval.RejectRequest{})
	require.Error(t, err)

	resp, err := svc.Reject(context.Background(), manager, "e1", approval.RejectRequest{Reason: "missing punches"})
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "missing punches", *resp.RejectionReason)
}

func TestBulk_PartialFailureReconciled(t *testing.T) {
	approved := pendingEntry("e2", "emp-1", 4)
	approved.Status = timeentry.StatusApproved
	repo := &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{
		"e1": pendingEntry("e1", "emp-1", 3),
		"e2": approved,
	}}
	svc := newService(repo, &fakeApprovalRepo{})

	result, err := svc.Bulk(context.Background(), manager, approval.BulkRequest{
		TimeEntryIDs: []string{"e1", "e2", "missing"},
		Action:       approval.ActionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.RequestedCount)
	assert.Equal(t, 1, result.AppliedCount)
	require.Len(t, result.Failures, 2)

	reasons := map[string]string{}
	for _, f := range result.Failures {
		reasons[f.TimeEntryID] = f.Reason
	}
	assert.Equal(t, "entry is not pending", reasons["e2"])
	assert.Equal(t, "entry not found", reasons["missing"])
}

func TestBulkByMember_Idempotent(t *testing.T) {
	repo := &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{
		"e1": pendingEntry("e1", "emp-1", 3),
		"e2": pendingEntry("e2", "emp-1", 4),
		"e3": pendingEntry("e3", "emp-2", 4),
	}}
	svc := newService(repo, &fakeApprovalRepo{})

	req := approval.MemberBulkRequest{Action: approval.ActionApprove, Year: 2024, Month: 6}
	result, err := svc.BulkByMember(context.Background(), manager, "emp-1", req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.AffectedCount)

	// Second run has nothing left to transition.
	result, err = svc.BulkByMember(context.Background(), manager, "emp-1", req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.AffectedCount)
}

func TestListPending_GroupsByProject(t *testing.T) {
	projA := "proj-a"
	nameA := "Apollo"
	rows := []approval.PendingRow{
		{Entry: pendingEntry("e1", "emp-1", 3), ProjectID: &projA, ProjectName: &nameA},
		{Entry: pendingEntry("e2", "emp-2", 3), ProjectID: &projA, ProjectName: &nameA},
		{Entry: pendingEntry("e3", "emp-3", 3)},
	}
	svc := newService(&fakeEntryRepo{entries: map[string]timeentry.TimeEntry{}}, &fakeApprovalRepo{rows: rows})

	resp, err := svc.ListPending(context.Background(), manager, approval.PendingFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalCount)
	require.Len(t, resp.Projects, 2)
	assert.Equal(t, "Apollo", resp.Projects[0].ProjectName)
	assert.Len(t, resp.Projects[0].Entries, 2)
	assert.Equal(t, "No Project", resp.Projects[1].ProjectName)
	assert.Nil(t, resp.Projects[1].ProjectID)
}

func TestProjectSummaries_ExportGate(t *testing.T) {
	repo := &fakeApprovalRepo{
		aggregates: []approval.MemberAggregate{
			{UserID: "emp-1", UserName: "Alice", WorkDays: 20, WorkHours: 160, PendingCount: 0, ApprovedCount: 15},
			{UserID: "emp-2", UserName: "Bob", WorkDays: 18, WorkHours: 150, PendingCount: 3, ApprovedCount: 15},
		},
		projects: []approval.ProjectMembers{
			{ProjectID: "proj-a", ProjectName: "Apollo", MemberUserIDs: []string{"emp-1"}},
			{ProjectID: "proj-b", ProjectName: "Borealis", MemberUserIDs: []string{"emp-1", "emp-2"}},
		},
	}
	svc := newService(&fakeEntryRepo{entries: map[string]timeentry.TimeEntry{}}, repo)

	summaries, err := svc.ProjectSummaries(context.Background(), manager, 2024, 6)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.True(t, summaries[0].CanExportProject)
	assert.Equal(t, 0, summaries[0].PendingTotal)

	assert.False(t, summaries[1].CanExportProject)
	assert.Equal(t, 3, summaries[1].PendingTotal)
	require.Len(t, summaries[1].Members, 2)
	assert.Equal(t, 75.0, summaries[1].Members[0].ApprovalRate) // 15/20
}
