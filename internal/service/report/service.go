package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/project"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/report"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/stats"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/timeutil"
)

type reportService struct {
	entryRepo   timeentry.TimeEntryRepository
	userRepo    user.UserRepository
	projectRepo project.ProjectRepository
	statsSvc    stats.StatsService
	resolver    worksettings.Resolver
	renderers   map[string]report.Renderer
	logger      *slog.Logger
	location    *time.Location
	now         func() time.Time
}

// ExportMember implements report.ReportService. Members export their own
// month; managers export anyone's.
func (s *reportService) ExportMember(ctx context.Context, actor user.Actor, memberUserID string, year, month int, format string) (report.Artifact, error) {
	if memberUserID != actor.UserID && !actor.CanViewCompany() {
		return report.Artifact{}, user.ErrCompanyScopeDenied
	}

	renderer, ok := s.renderers[format]
	if !ok {
		return report.Artifact{}, report.ErrUnsupportedFormat
	}

	subject, err := s.userRepo.GetByID(ctx, memberUserID, actor.CompanyID)
	if err != nil {
		return report.Artifact{}, err
	}

	entries, err := s.snapshotEntries(ctx, subject, year, month)
	if err != nil {
		return report.Artifact{}, err
	}

	summary, err := s.statsSvc.MonthlyStats(ctx, user.ScopeFor(actor), memberUserID, year, month)
	if err != nil {
		return report.Artifact{}, err
	}

	snapshot := report.Snapshot{
		Title:       "Attendance Report",
		SubjectName: subject.Name,
		PeriodYear:  year,
		PeriodMonth: month,
		GeneratedAt: s.now().In(s.location),
		Entries:     entries,
		Summaries:   []stats.MonthlyStats{summary},
	}

	return s.render(renderer, snapshot, subject.Name)
}

// ExportProject implements report.ReportService. Blocked while any member
// still has a PENDING entry in the period: exported artifacts must never
// contain rows that could still change.
func (s *reportService) ExportProject(ctx context.Context, actor user.Actor, projectID string, year, month int, format string) (report.Artifact, error) {
	if !actor.CanApprove() {
		return report.Artifact{}, user.ErrManagerRequired
	}

	renderer, ok := s.renderers[format]
	if !ok {
		return report.Artifact{}, report.ErrUnsupportedFormat
	}

	proj, err := s.projectRepo.GetByID(ctx, projectID, actor.CompanyID)
	if err != nil {
		return report.Artifact{}, err
	}
	members, err := s.projectRepo.GetMembers(ctx, projectID, actor.CompanyID)
	if err != nil {
		return report.Artifact{}, err
	}

	var allEntries []report.SnapshotEntry
	var summaries []stats.MonthlyStats
	for _, member := range members {
		subject, err := s.userRepo.GetByID(ctx, member.UserID, actor.CompanyID)
		if err != nil {
			return report.Artifact{}, err
		}

		from, to := timeutil.MonthSpan(year, time.Month(month), s.location)
		raw, err := s.entryRepo.ListForUserRange(ctx, member.UserID, from, to)
		if err != nil {
			return report.Artifact{}, err
		}
		for _, e := range raw {
			if e.Status == timeentry.StatusPending {
				return report.Artifact{}, report.ErrExportBlocked
			}
		}

		entries, err := s.buildEntries(ctx, subject, raw)
		if err != nil {
			return report.Artifact{}, err
		}
		allEntries = append(allEntries, entries...)

		summary, err := s.statsSvc.MonthlyStats(ctx, user.ScopeFor(actor), member.UserID, year, month)
		if err != nil {
			return report.Artifact{}, err
		}
		summaries = append(summaries, summary)
	}

	snapshot := report.Snapshot{
		Title:       "Project Attendance Report",
		SubjectName: proj.Name,
		PeriodYear:  year,
		PeriodMonth: month,
		GeneratedAt: s.now().In(s.location),
		Entries:     allEntries,
		Summaries:   summaries,
	}

	return s.render(renderer, snapshot, proj.Name)
}

func (s *reportService) snapshotEntries(ctx context.Context, subject user.User, year, month int) ([]report.SnapshotEntry, error) {
	from, to := timeutil.MonthSpan(year, time.Month(month), s.location)
	raw, err := s.entryRepo.ListForUserRange(ctx, subject.ID, from, to)
	if err != nil {
		return nil, err
	}
	return s.buildEntries(ctx, subject, raw)
}

func (s *reportService) buildEntries(ctx context.Context, subject user.User, raw []timeentry.TimeEntry) ([]report.SnapshotEntry, error) {
	entries := make([]report.SnapshotEntry, 0, len(raw))
	for _, e := range raw {
		row := report.SnapshotEntry{
			UserName:     subject.Name,
			Date:         e.Date.Format("2006-01-02"),
			ClockIn:      timeutil.NoData,
			ClockOut:     timeutil.NoData,
			BreakMinutes: e.BreakMinutes,
			WorkedHours:  e.WorkedHours,
			Status:       e.Status,
		}
		if e.Note != nil {
			row.Note = *e.Note
		}

		effective, err := s.resolver.Resolve(ctx, subject.ID, e.Date)
		if err != nil {
			return nil, err
		}
		if e.ClockIn != nil {
			in := e.ClockIn.In(s.location)
			row.ClockIn = timeutil.FormatMinuteOfDay(timeutil.MinuteOfDay(in))
			late, err := timeentry.CheckLateArrival(in, effective)
			if err != nil {
				return nil, err
			}
			row.LateMinutes = late.LateMinutes
		}
		if e.ClockOut != nil {
			out := e.ClockOut.In(s.location)
			row.ClockOut = timeutil.FormatMinuteOfDay(timeutil.MinuteOfDay(out))
			row.OvertimeHours = timeentry.OvertimeHours(e.WorkedHours, effective.OvertimeThresholdHours)
		}

		entries = append(entries, row)
	}
	return entries, nil
}

func (s *reportService) render(renderer report.Renderer, snapshot report.Snapshot, subjectName string) (report.Artifact, error) {
	data, err := renderer.Render(snapshot)
	if err != nil {
		return report.Artifact{}, fmt.Errorf("failed to render report: %w", err)
	}

	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(subjectName), " ", "-"))
	filename := fmt.Sprintf("attendance-%s-%s.%s", slug, snapshot.PeriodLabel(), renderer.FileExtension())

	s.logger.Info("report rendered",
		slog.String("subject", subjectName),
		slog.String("period", snapshot.PeriodLabel()),
		slog.String("filename", filename),
		slog.Int("bytes", len(data)),
	)

	return report.Artifact{
		Filename:    filename,
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func NewReportService(
	entryRepo timeentry.TimeEntryRepository,
	userRepo user.UserRepository,
	projectRepo project.ProjectRepository,
	statsSvc stats.StatsService,
	resolver worksettings.Resolver,
	renderers map[string]report.Renderer,
	logger *slog.Logger,
	location *time.Location,
) report.ReportService {
	return &reportService{
		entryRepo:   entryRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		statsSvc:    statsSvc,
		resolver:    resolver,
		renderers:   renderers,
		logger:      logger,
		location:    location,
		now:         time.Now,
	}
}
