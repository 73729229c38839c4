package timeentry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntryRepo struct {
	entries map[string]timeentry.TimeEntry
	nextID  int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{}}
}

func (f *fakeEntryRepo) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	f.nextID++
	entry.ID = fmt.Sprintf("entry-%d", f.nextID)
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id, companyID string) (timeentry.TimeEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.CompanyID != companyID {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*timeentry.TimeEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Date.Equal(date) {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeEntryRepo) RecordClockIn(ctx context.Context, id string, clockIn time.Time, location, note *string) error {
	e, ok := f.entries[id]
	if !ok {
		return timeentry.ErrEntryNotFound
	}
	e.ClockIn = &clockIn
	e.ClockOut = nil
	e.WorkedHours = 0
	e.Status = timeentry.StatusPending
	e.ApprovedBy = nil
	e.ApprovedAt = nil
	e.RejectionReason = nil
	f.entries[id] = e
	return nil
}

func (f *fakeEntryRepo) RecordClockOut(ctx context.Context, id string, upd timeentry.ClockOutUpdate) error {
	e, ok := f.entries[id]
	if !ok {
		return timeentry.ErrEntryNotFound
	}
	if e.ClockOut != nil {
		return timeentry.ErrAlreadyClockedOut
	}
	e.ClockOut = &upd.ClockOut
	e.WorkedHours = upd.WorkedHours
	e.Status = timeentry.StatusPending
	f.entries[id] = e
	return nil
}

func (f *fakeEntryRepo) UpdateBreakTotals(ctx context.Context, id string, breakMinutes int, workedHours float64) error {
	e, ok := f.entries[id]
	if !ok {
		return timeentry.ErrEntryNotFound
	}
	e.BreakMinutes = breakMinutes
	e.WorkedHours = workedHours
	e.Status = timeentry.StatusPending
	f.entries[id] = e
	return nil
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
			e.RejectionReason = reason
			f.entries[id] = e
			count++
		}
	}
	return count, nil
}

func (f *fakeEntryRepo) List(ctx context.Context, scope user.Scope, filter timeentry.Filter) ([]timeentry.TimeEntry, int64, error) {
	var out []timeentry.TimeEntry
	for _, e := range f.entries {
		if scope.Kind == user.ScopeUser && e.UserID != scope.UserID {
			continue
		}
		if e.CompanyID != scope.CompanyID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEntryRepo) ListForUserRange(ctx context.Context, userID string, from, to time.Time) ([]timeentry.TimeEntry, error) {
	var out []timeentry.TimeEntry
	for _, e := range f.entries {
		if e.UserID == userID && !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeBreakRepo struct {
	breaks map[string]timeentry.BreakRecord
	nextID int
}

func newFakeBreakRepo() *fakeBreakRepo {
	return &fakeBreakRepo{breaks: map[string]timeentry.BreakRecord{}}
}

func (f *fakeBreakRepo) Create(ctx context.Context, rec timeentry.BreakRecord) (timeentry.BreakRecord, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("break-%d", f.nextID)
	f.breaks[rec.ID] = rec
	return rec, nil
}

func (f *fakeBreakRepo) GetByID(ctx context.Context, id string) (timeentry.BreakRecord, error) {
	b, ok := f.breaks[id]
	if !ok {
		return timeentry.BreakRecord{}, timeentry.ErrBreakNotFound
	}
	return b, nil
}

func (f *fakeBreakRepo) GetOpenByEntry(ctx context.Context, entryID string) (*timeentry.BreakRecord, error) {
	for _, b := range f.breaks {
		if b.TimeEntryID == entryID && b.EndTime == nil {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBreakRepo) Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error {
	b, ok := f.breaks[id]
	if !ok {
		return timeentry.ErrBreakNotFound
	}
	if b.EndTime != nil {
		return timeentry.ErrBreakAlreadyClosed
	}
	b.EndTime = &endTime
	b.DurationMinutes = &durationMinutes
	f.breaks[id] = b
	return nil
}

func (f *fakeBreakRepo) SumClosedMinutes(ctx context.Context, entryID string) (int, error) {
	total := 0
	for _, b := range f.breaks {
		if b.TimeEntryID == entryID && b.EndTime != nil && b.DurationMinutes != nil {
			total += *b.DurationMinutes
		}
	}
	return total, nil
}

func (f *fakeBreakRepo) ListByEntry(ctx context.Context, entryID string) ([]timeentry.BreakRecord, error) {
	var out []timeentry.BreakRecord
	for _, b := range f.breaks {
		if b.TimeEntryID == entryID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeResolver struct {
	effective worksettings.Effective
}

func (f *fakeResolver) Resolve(ctx context.Context, userID string, date time.Time) (worksettings.Effective, error) {
	return f.effective, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc       *timeEntryService
	entryRepo *fakeEntryRepo
	breakRepo *fakeBreakRepo
	clock     *time.Time
}

func newFixture(t *testing.T, nowStr string) *fixture {
	t.Helper()
	now, err := time.Parse(time.RFC3339, nowStr)
	require.NoError(t, err)

	entryRepo := newFakeEntryRepo()
	breakRepo := newFakeBreakRepo()
	clock := now

	svc := &timeEntryService{
		entryRepo: entryRepo,
		breakRepo: breakRepo,
		resolver:  &fakeResolver{effective: worksettings.Defaults()},
		txManager: &fakeTxManager{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		location:  time.UTC,
		now:       func() time.Time { return clock },
	}
	f := &fixture{svc: svc, entryRepo: entryRepo, breakRepo: breakRepo, clock: &clock}
	svc.now = func() time.Time { return *f.clock }

	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

var testActor = user.Actor{UserID: "user-1", CompanyID: "company-1", Role: user.RoleEmployee}

func TestClockIn_CreatesPendingEntry(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	resp, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	assert.Equal(t, timeentry.StatusPending, resp.Status)
	assert.Equal(t, "2024-05-13", resp.Date)
	require.NotNil(t, resp.ClockIn)
	require.NotNil(t, resp.IsLate)
	assert.False(t, *resp.IsLate)
}

func TestClockIn_LateArrivalAnnotated(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:30:00Z")

	resp, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	require.NotNil(t, resp.IsLate)
	assert.True(t, *resp.IsLate)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 30, *resp.LateMinutes)
}

func TestClockIn_SecondPunchOverwritesAndResets(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	first, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	// Approve it, then punch again: the entry goes back to PENDING.
	e := f.entryRepo.entries[first.ID]
	e.Status = timeentry.StatusApproved
	f.entryRepo.entries[first.ID] = e

	f.advance(10 * time.Minute)
	second, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, timeentry.StatusPending, second.Status)
}

func TestClockIn_MalformedDateIsValidationError(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	bad := "13-05-2024"
	_, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{Date: &bad})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.NotErrorIs(t, err, timeentry.ErrEntryNotFound)
}

func TestClockIn_AfterClockOutStartsFreshCycle(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	first, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	f.advance(8 * time.Hour)
	_, err = f.svc.ClockOut(context.Background(), testActor, first.ID, timeentry.ClockOutRequest{})
	require.NoError(t, err)

	// Punching in again after a completed day clears the old clock-out,
	// so the entry re-enters the open session state.
	f.advance(1 * time.Hour)
	second, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Nil(t, second.ClockOut)
	assert.Equal(t, 0.0, second.WorkedHours)
	assert.Equal(t, timeentry.StatusPending, second.Status)

	stored := f.entryRepo.entries[first.ID]
	require.NotNil(t, stored.ClockIn)
	assert.Nil(t, stored.ClockOut)

	// The new cycle can complete.
	f.advance(2 * time.Hour)
	out, err := f.svc.ClockOut(context.Background(), testActor, first.ID, timeentry.ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.WorkedHours)
}

func TestClockOut_ComputesWorkedHours(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	in, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	f.advance(9 * time.Hour)
	out, err := f.svc.ClockOut(context.Background(), testActor, in.ID, timeentry.ClockOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, 9.0, out.WorkedHours)
	require.NotNil(t, out.OvertimeHours)
	assert.Equal(t, 1.0, *out.OvertimeHours)
}

func TestClockOut_Twice(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	in, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	f.advance(8 * time.Hour)
	_, err = f.svc.ClockOut(context.Background(), testActor, in.ID, timeentry.ClockOutRequest{})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(context.Background(), testActor, in.ID, timeentry.ClockOutRequest{})
	assert.ErrorIs(t, err, timeentry.ErrAlreadyClockedOut)
}

func TestClockOut_OpenBreakBlocks(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	in, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	f.advance(3 * time.Hour)
	_, err = f.svc.StartBreak(context.Background(), testActor, in.ID, timeentry.StartBreakRequest{})
	require.NoError(t, err)

	f.advance(time.Hour)
	_, err = f.svc.ClockOut(context.Background(), testActor, in.ID, timeentry.ClockOutRequest{})
	assert.ErrorIs(t, err, timeentry.ErrOpenBreakExists)
}

func TestBreaks_FullCycleResumsTotals(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	in, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	f.advance(3 * time.Hour)
	b1, err := f.svc.StartBreak(context.Background(), testActor, in.ID, timeentry.StartBreakRequest{})
	require.NoError(t, err)

	f.advance(45 * time.Minute)
	closed, err := f.svc.EndBreak(context.Background(), testActor, b1.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 45, *closed.DurationMinutes)

	// Second break accumulates via a full resum.
	f.advance(2 * time.Hour)
	b2, err := f.svc.StartBreak(context.Background(), testActor, in.ID, timeentry.StartBreakRequest{})
	require.NoError(t, err)
	f.advance(15 * time.Minute)
	_, err = f.svc.EndBreak(context.Background(), testActor, b2.ID)
	require.NoError(t, err)

	entry := f.entryRepo.entries[in.ID]
	assert.Equal(t, 60, entry.BreakMinutes)
}

func TestStartBreak_SecondOpenBreakRejected(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	in, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	_, err = f.svc.StartBreak(context.Background(), testActor, in.ID, timeentry.StartBreakRequest{})
	require.NoError(t, err)

	_, err = f.svc.StartBreak(context.Background(), testActor, in.ID, timeentry.StartBreakRequest{})
	assert.ErrorIs(t, err, timeentry.ErrOpenBreakExists)
}

func TestEndBreak_Twice(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	in, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	b, err := f.svc.StartBreak(context.Background(), testActor, in.ID, timeentry.StartBreakRequest{})
	require.NoError(t, err)

	f.advance(30 * time.Minute)
	_, err = f.svc.EndBreak(context.Background(), testActor, b.ID)
	require.NoError(t, err)

	_, err = f.svc.EndBreak(context.Background(), testActor, b.ID)
	assert.ErrorIs(t, err, timeentry.ErrBreakAlreadyClosed)
}

func TestGetEntry_ForeignEntryHidden(t *testing.T) {
	f := newFixture(t, "2024-05-13T09:00:00Z")

	in, err := f.svc.ClockIn(context.Background(), testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	other := user.Actor{UserID: "user-2", CompanyID: "company-1", Role: user.RoleEmployee}
	_, err = f.svc.GetEntry(context.Background(), other, in.ID)
	assert.ErrorIs(t, err, timeentry.ErrEntryNotFound)

	// A manager in the same company can see it.
	manager := user.Actor{UserID: "user-3", CompanyID: "company-1", Role: user.RoleManager}
	got, err := f.svc.GetEntry(context.Background(), manager, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
}

func TestTodayStatus_Transitions(t *testing.T) {
	f := newFixture(t, "2024-05-13T08:55:00Z")
	ctx := context.Background()

	status, err := f.svc.TodayStatus(ctx, testActor)
	require.NoError(t, err)
	assert.True(t, status.CanClockIn)
	assert.False(t, status.HasEntry)

	in, err := f.svc.ClockIn(ctx, testActor, timeentry.ClockInRequest{})
	require.NoError(t, err)

	status, err = f.svc.TodayStatus(ctx, testActor)
	require.NoError(t, err)
	assert.True(t, status.HasEntry)
	assert.False(t, status.CanClockIn)
	assert.True(t, status.CanClockOut)
	assert.True(t, status.CanTakeBreak)

	_, err = f.svc.StartBreak(ctx, testActor, in.ID, timeentry.StartBreakRequest{})
	require.NoError(t, err)

	status, err = f.svc.TodayStatus(ctx, testActor)
	require.NoError(t, err)
	require.NotNil(t, status.OpenBreak)
	assert.False(t, status.CanClockOut)
	assert.False(t, status.CanTakeBreak)
}
