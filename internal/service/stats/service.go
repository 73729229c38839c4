package stats

import (
	"context"
	"sort"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/stats"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// memberConcurrency bounds the company roll-up fan-out.
const memberConcurrency = 8

type statsService struct {
	entryRepo timeentry.TimeEntryRepository
	userRepo  user.UserRepository
	resolver  worksettings.Resolver
	location  *time.Location
}

// MonthlyStats implements stats.StatsService.
func (s *statsService) MonthlyStats(ctx context.Context, scope user.Scope, userID string, year, month int) (stats.MonthlyStats, error) {
	if scope.Kind == user.ScopeUser && scope.UserID != userID {
		return stats.MonthlyStats{}, user.ErrCompanyScopeDenied
	}

	subject, err := s.userRepo.GetByID(ctx, userID, scope.CompanyID)
	if err != nil {
		return stats.MonthlyStats{}, err
	}

	result, err := s.rollUpUser(ctx, subject, year, month)
	if err != nil {
		return stats.MonthlyStats{}, err
	}
	return result, nil
}

// CompanyStats implements stats.StatsService. Member roll-ups run
// concurrently; the aggregate and ranking are assembled after the fan-out
// completes so ordering stays deterministic.
func (s *statsService) CompanyStats(ctx context.Context, scope user.Scope, year, month int) (stats.CompanyStats, error) {
	if scope.Kind != user.ScopeCompany {
		return stats.CompanyStats{}, user.ErrCompanyScopeDenied
	}

	members, err := s.userRepo.ListByCompany(ctx, scope.CompanyID)
	if err != nil {
		return stats.CompanyStats{}, err
	}

	memberStats := make([]stats.MonthlyStats, len(members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(memberConcurrency)
	for i, member := range members {
		g.Go(func() error {
			result, err := s.rollUpUser(gctx, member, year, month)
			if err != nil {
				return err
			}
			memberStats[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats.CompanyStats{}, err
	}

	company := stats.CompanyStats{
		CompanyID:   scope.CompanyID,
		Year:        year,
		Month:       month,
		WorkingDays: timeutil.WorkingDays(year, time.Month(month), s.location),
		MemberCount: len(members),
	}

	totalHours := decimal.Zero
	totalOvertime := decimal.Zero
	for _, m := range memberStats {
		totalHours = totalHours.Add(decimal.NewFromFloat(m.TotalWorkHours))
		totalOvertime = totalOvertime.Add(decimal.NewFromFloat(m.OvertimeHours))
		company.LateCount += m.LateCount
		company.TransportationCost += m.TransportationCost
		company.PendingCount += m.PendingCount
		company.ApprovedCount += m.ApprovedCount
		company.RejectedCount += m.RejectedCount
	}
	company.TotalWorkHours = totalHours.Round(2).InexactFloat64()
	company.TotalOvertimeHours = totalOvertime.Round(2).InexactFloat64()

	ranked := make([]stats.MonthlyStats, len(memberStats))
	copy(ranked, memberStats)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalWorkHours != ranked[j].TotalWorkHours {
			return ranked[i].TotalWorkHours > ranked[j].TotalWorkHours
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	size := stats.RankingSize
	if len(ranked) < size {
		size = len(ranked)
	}
	for i := 0; i < size; i++ {
		name := ""
		if ranked[i].UserName != nil {
			name = *ranked[i].UserName
		}
		company.Rankings = append(company.Rankings, stats.MemberRanking{
			Rank:           i + 1,
			UserID:         ranked[i].UserID,
			UserName:       name,
			TotalWorkHours: ranked[i].TotalWorkHours,
			WorkDays:       ranked[i].WorkDays,
			OvertimeHours:  ranked[i].OvertimeHours,
		})
	}

	return company, nil
}

func (s *statsService) rollUpUser(ctx context.Context, subject user.User, year, month int) (stats.MonthlyStats, error) {
	from, to := timeutil.MonthSpan(year, time.Month(month), s.location)

	entries, err := s.entryRepo.ListForUserRange(ctx, subject.ID, from, to)
	if err != nil {
		return stats.MonthlyStats{}, err
	}

	name := subject.Name
	result := stats.MonthlyStats{
		UserID:          subject.ID,
		UserName:        &name,
		Year:            year,
		Month:           month,
		WorkingDays:     timeutil.WorkingDays(year, time.Month(month), s.location),
		AverageClockIn:  timeutil.NoData,
		AverageClockOut: timeutil.NoData,
	}

	totalHours := decimal.Zero
	totalOvertime := decimal.Zero
	clockInSum, clockInCount := 0, 0
	clockOutSum, clockOutCount := 0, 0

	for _, entry := range entries {
		switch entry.Status {
		case timeentry.StatusPending:
			result.PendingCount++
		case timeentry.StatusApproved:
			result.ApprovedCount++
		case timeentry.StatusRejected:
			result.RejectedCount++
		}

		if entry.LeaveType != nil {
			result.LeaveDays++
			continue
		}
		if entry.ClockIn == nil {
			continue
		}

		result.WorkDays++
		totalHours = totalHours.Add(decimal.NewFromFloat(entry.WorkedHours))
		if entry.TransportationCost != nil {
			result.TransportationCost += *entry.TransportationCost
		}

		effective, err := s.resolver.Resolve(ctx, subject.ID, entry.Date)
		if err != nil {
			return stats.MonthlyStats{}, err
		}

		late, err := timeentry.CheckLateArrival(entry.ClockIn.In(s.location), effective)
		if err != nil {
			return stats.MonthlyStats{}, err
		}
		if late.IsLate {
			result.LateCount++
		}

		clockInSum += timeutil.MinuteOfDay(entry.ClockIn.In(s.location))
		clockInCount++

		if entry.ClockOut != nil {
			overtime := timeentry.OvertimeHours(entry.WorkedHours, effective.OvertimeThresholdHours)
			totalOvertime = totalOvertime.Add(decimal.NewFromFloat(overtime))
			clockOutSum += timeutil.MinuteOfDay(entry.ClockOut.In(s.location))
			clockOutCount++
		}
	}

	result.TotalWorkHours = totalHours.Round(2).InexactFloat64()
	result.OvertimeHours = totalOvertime.Round(2).InexactFloat64()

	if result.WorkDays > 0 {
		result.AverageWorkHours = totalHours.Div(decimal.NewFromInt(int64(result.WorkDays))).Round(2).InexactFloat64()
	}
	if result.WorkingDays > 0 {
		rate := decimal.NewFromInt(int64(result.WorkDays)).
			Div(decimal.NewFromInt(int64(result.WorkingDays))).
			Mul(decimal.NewFromInt(100))
		result.AttendanceRate = rate.Round(1).InexactFloat64()
	}
	if clockInCount > 0 {
		result.AverageClockIn = timeutil.FormatMinuteOfDay(averageMinute(clockInSum, clockInCount))
	}
	if clockOutCount > 0 {
		result.AverageClockOut = timeutil.FormatMinuteOfDay(averageMinute(clockOutSum, clockOutCount))
	}

	return result, nil
}

// averageMinute rounds to the nearest whole minute rather than truncating.
func averageMinute(sum, count int) int {
	avg := decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(count))).
		Round(0)
	return int(avg.IntPart())
}

func NewStatsService(
	entryRepo timeentry.TimeEntryRepository,
	userRepo user.UserRepository,
	resolver worksettings.Resolver,
	location *time.Location,
) stats.StatsService {
	return &statsService{
		entryRepo: entryRepo,
		userRepo:  userRepo,
		resolver:  resolver,
		location:  location,
	}
}
