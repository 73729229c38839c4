package timeentry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/database"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/timeutil"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/validator"
)

type timeEntryService struct {
	entryRepo timeentry.TimeEntryRepository
	breakRepo timeentry.BreakRepository
	resolver  worksettings.Resolver
	txManager database.TransactionManager
	logger    *slog.Logger
	location  *time.Location
	now       func() time.Time
}

func (s *timeEntryService) today() time.Time {
	n := s.now().In(s.location)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.location)
}

// ClockIn implements timeentry.TimeEntryService. A repeated clock-in on the
// same date overwrites the timestamp, clears any prior clock-out and resets
// the entry to PENDING, starting a fresh punch cycle.
func (s *timeEntryService) ClockIn(ctx context.Context, actor user.Actor, req timeentry.ClockInRequest) (timeentry.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	date := s.today()
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *req.Date, s.location)
		if err != nil {
			return timeentry.EntryResponse{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		date = parsed
	}
	clockInAt := s.now().In(s.location)

	existing, err := s.entryRepo.GetByUserAndDate(ctx, actor.UserID, date)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to look up entry for date: %w", err)
	}

	if existing == nil {
		effective, err := s.resolver.Resolve(ctx, actor.UserID, date)
		if err != nil {
			return timeentry.EntryResponse{}, err
		}
		cost := effective.TransportationCost

		entry := timeentry.TimeEntry{
			UserID:             actor.UserID,
			CompanyID:          actor.CompanyID,
			Date:               date,
			ClockIn:            &clockInAt,
			Status:             timeentry.StatusPending,
			Note:               req.Note,
			Location:           req.Location,
			TransportationCost: &cost,
		}
		created, err := s.entryRepo.Create(ctx, entry)
		if err != nil {
			return timeentry.EntryResponse{}, err
		}

		s.logger.Info("clock-in recorded",
			slog.String("user_id", actor.UserID),
			slog.String("entry_id", created.ID),
			slog.String("date", date.Format("2006-01-02")),
		)

		return s.toEntryResponse(ctx, created)
	}

	if err := s.entryRepo.RecordClockIn(ctx, existing.ID, clockInAt, req.Location, req.Note); err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.logger.Info("clock-in overwritten",
		slog.String("user_id", actor.UserID),
		slog.String("entry_id", existing.ID),
		slog.String("date", date.Format("2006-01-02")),
	)

	updated, err := s.entryRepo.GetByID(ctx, existing.ID, actor.CompanyID)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	return s.toEntryResponse(ctx, updated)
}

// ClockOut implements timeentry.TimeEntryService. Open breaks must be ended
// first; the worked-hours write and the PENDING reset land in one statement.
func (s *timeEntryService) ClockOut(ctx context.Context, actor user.Actor, entryID string, req timeentry.ClockOutRequest) (timeentry.EntryResponse, error) {
	entry, err := s.ownedEntry(ctx, actor, entryID)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}

	if entry.ClockIn == nil {
		return timeentry.EntryResponse{}, timeentry.ErrNotClockedIn
	}
	if entry.ClockOut != nil {
		return timeentry.EntryResponse{}, timeentry.ErrAlreadyClockedOut
	}

	openBreak, err := s.breakRepo.GetOpenByEntry(ctx, entry.ID)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	if openBreak != nil {
		return timeentry.EntryResponse{}, timeentry.ErrOpenBreakExists
	}

	clockOutAt := s.now().In(s.location)
	if !clockOutAt.After(*entry.ClockIn) {
		return timeentry.EntryResponse{}, timeentry.ErrClockOutNotAfterIn
	}

	upd := timeentry.ClockOutUpdate{
		ClockOut:    clockOutAt,
		WorkedHours: timeentry.WorkedHours(*entry.ClockIn, clockOutAt, entry.BreakMinutes),
		Location:    req.Location,
		Note:        req.Note,
	}
	if err := s.entryRepo.RecordClockOut(ctx, entry.ID, upd); err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.logger.Info("clock-out recorded",
		slog.String("user_id", actor.UserID),
		slog.String("entry_id", entry.ID),
		slog.Float64("worked_hours", upd.WorkedHours),
	)

	updated, err := s.entryRepo.GetByID(ctx, entry.ID, actor.CompanyID)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	return s.toEntryResponse(ctx, updated)
}

// StartBreak implements timeentry.TimeEntryService.
func (s *timeEntryService) StartBreak(ctx context.Context, actor user.Actor, entryID string, req timeentry.StartBreakRequest) (timeentry.BreakResponse, error) {
	entry, err := s.ownedEntry(ctx, actor, entryID)
	if err != nil {
		return timeentry.BreakResponse{}, err
	}

	if entry.ClockIn == nil {
		return timeentry.BreakResponse{}, timeentry.ErrNotClockedIn
	}
	if entry.ClockOut != nil {
		return timeentry.BreakResponse{}, timeentry.ErrAlreadyClockedOut
	}

	openBreak, err := s.breakRepo.GetOpenByEntry(ctx, entry.ID)
	if err != nil {
		return timeentry.BreakResponse{}, err
	}
	if openBreak != nil {
		return timeentry.BreakResponse{}, timeentry.ErrOpenBreakExists
	}

	rec, err := s.breakRepo.Create(ctx, timeentry.BreakRecord{
		TimeEntryID: entry.ID,
		StartTime:   s.now().In(s.location),
		Reason:      req.Reason,
	})
	if err != nil {
		return timeentry.BreakResponse{}, err
	}

	return timeentry.BuildBreakResponse(rec), nil
}

// EndBreak implements timeentry.TimeEntryService. The close, the full resum
// of closed breaks, and the entry totals update run in one transaction.
func (s *timeEntryService) EndBreak(ctx context.Context, actor user.Actor, breakID string) (timeentry.BreakResponse, error) {
	rec, err := s.breakRepo.GetByID(ctx, breakID)
	if err != nil {
		return timeentry.BreakResponse{}, err
	}

	entry, err := s.ownedEntry(ctx, actor, rec.TimeEntryID)
	if err != nil {
		return timeentry.BreakResponse{}, err
	}
	if !rec.IsOpen() {
		return timeentry.BreakResponse{}, timeentry.ErrBreakAlreadyClosed
	}

	endAt := s.now().In(s.location)
	duration := timeentry.BreakDuration(rec.StartTime, endAt)

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.breakRepo.Close(txCtx, rec.ID, endAt, duration); err != nil {
			return err
		}

		totalMinutes, err := s.breakRepo.SumClosedMinutes(txCtx, entry.ID)
		if err != nil {
			return err
		}

		workedHours := entry.WorkedHours
		if entry.ClockIn != nil && entry.ClockOut != nil {
			workedHours = timeentry.WorkedHours(*entry.ClockIn, *entry.ClockOut, totalMinutes)
		}
		return s.entryRepo.UpdateBreakTotals(txCtx, entry.ID, totalMinutes, workedHours)
	})
	if err != nil {
		return timeentry.BreakResponse{}, err
	}

	rec.EndTime = &endAt
	rec.DurationMinutes = &duration
	return timeentry.BuildBreakResponse(rec), nil
}

// TodayStatus implements timeentry.TimeEntryService.
func (s *timeEntryService) TodayStatus(ctx context.Context, actor user.Actor) (timeentry.TodayStatusResponse, error) {
	date := s.today()

	resp := timeentry.TodayStatusResponse{
		Date:       date.Format("2006-01-02"),
		CanClockIn: true,
	}

	entry, err := s.entryRepo.GetByUserAndDate(ctx, actor.UserID, date)
	if err != nil {
		return timeentry.TodayStatusResponse{}, err
	}
	if entry == nil {
		return resp, nil
	}

	resp.HasEntry = true
	resp.CanClockIn = false

	annotated, err := s.toEntryResponse(ctx, *entry)
	if err != nil {
		return timeentry.TodayStatusResponse{}, err
	}
	resp.Entry = &annotated

	if entry.HasOpenSession() {
		openBreak, err := s.breakRepo.GetOpenByEntry(ctx, entry.ID)
		if err != nil {
			return timeentry.TodayStatusResponse{}, err
		}
		if openBreak != nil {
			b := timeentry.BuildBreakResponse(*openBreak)
			resp.OpenBreak = &b
		} else {
			resp.CanClockOut = true
			resp.CanTakeBreak = true
		}
	}

	return resp, nil
}

// GetEntry implements timeentry.TimeEntryService. Employees only see their
// own entries; a foreign id reads as not found.
func (s *timeEntryService) GetEntry(ctx context.Context, actor user.Actor, entryID string) (timeentry.EntryResponse, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID, actor.CompanyID)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	if entry.UserID != actor.UserID && !actor.CanViewCompany() {
		return timeentry.EntryResponse{}, timeentry.ErrEntryNotFound
	}
	return s.toEntryResponse(ctx, entry)
}

// ListEntries implements timeentry.TimeEntryService.
func (s *timeEntryService) ListEntries(ctx context.Context, scope user.Scope, filter timeentry.Filter) (timeentry.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeentry.ListResponse{}, err
	}

	entries, total, err := s.entryRepo.List(ctx, scope, filter)
	if err != nil {
		return timeentry.ListResponse{}, err
	}

	responses := make([]timeentry.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp, err := s.toEntryResponse(ctx, entry)
		if err != nil {
			return timeentry.ListResponse{}, err
		}
		responses = append(responses, resp)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	showing := "Showing 0 of 0 entries"
	if len(responses) > 0 {
		start := (filter.Page-1)*filter.Limit + 1
		showing = timeutil.ShowingLabel(start, start+len(responses)-1, total)
	}

	return timeentry.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Entries:    responses,
	}, nil
}

func (s *timeEntryService) ownedEntry(ctx context.Context, actor user.Actor, entryID string) (timeentry.TimeEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID, actor.CompanyID)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	if entry.UserID != actor.UserID {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	return entry, nil
}

// toEntryResponse annotates an entry with the schedule resolved for its date
// and the metrics derived from it.
func (s *timeEntryService) toEntryResponse(ctx context.Context, entry timeentry.TimeEntry) (timeentry.EntryResponse, error) {
	effective, err := s.resolver.Resolve(ctx, entry.UserID, entry.Date)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	return timeentry.BuildEntryResponse(entry, effective, s.location)
}

func NewTimeEntryService(
	entryRepo timeentry.TimeEntryRepository,
	breakRepo timeentry.BreakRepository,
	resolver worksettings.Resolver,
	txManager database.TransactionManager,
	logger *slog.Logger,
	location *time.Location,
) timeentry.TimeEntryService {
	return &timeEntryService{
		entryRepo: entryRepo,
		breakRepo: breakRepo,
		resolver:  resolver,
		txManager: txManager,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}
