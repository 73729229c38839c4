package timeentry

import (
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
)

// BuildEntryResponse projects an entry through the schedule resolved for its
// date. Pure; both the punch and approval surfaces render entries with it.
func BuildEntryResponse(entry TimeEntry, effective worksettings.Effective, loc *time.Location) (EntryResponse, error) {
	resp := EntryResponse{
		ID:                 entry.ID,
		UserID:             entry.UserID,
		UserName:           entry.UserName,
		Date:               entry.Date.Format("2006-01-02"),
		BreakMinutes:       entry.BreakMinutes,
		WorkedHours:        entry.WorkedHours,
		Status:             entry.Status,
		Note:               entry.Note,
		Location:           entry.Location,
		LeaveType:          entry.LeaveType,
		TransportationCost: entry.TransportationCost,
		RejectionReason:    entry.RejectionReason,
		SettingSource:      string(effective.Source),
		ProjectName:        effective.ProjectName,
		ExpectedStartTime:  &effective.WorkStartTime,
		CreatedAt:          entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          entry.UpdatedAt.Format(time.RFC3339),
	}

	if entry.ClockIn != nil {
		v := entry.ClockIn.In(loc).Format(time.RFC3339)
		resp.ClockIn = &v

		late, err := CheckLateArrival(entry.ClockIn.In(loc), effective)
		if err != nil {
			return EntryResponse{}, err
		}
		resp.IsLate = &late.IsLate
		resp.LateMinutes = &late.LateMinutes
	}
	if entry.ClockOut != nil {
		v := entry.ClockOut.In(loc).Format(time.RFC3339)
		resp.ClockOut = &v

		overtime := OvertimeHours(entry.WorkedHours, effective.OvertimeThresholdHours)
		resp.OvertimeHours = &overtime
	}

	return resp, nil
}

// BuildBreakResponse renders a break record for the wire.
func BuildBreakResponse(rec BreakRecord) BreakResponse {
	resp := BreakResponse{
		ID:              rec.ID,
		TimeEntryID:     rec.TimeEntryID,
		StartTime:       rec.StartTime.Format(time.RFC3339),
		DurationMinutes: rec.DurationMinutes,
		Reason:          rec.Reason,
	}
	if rec.EndTime != nil {
		v := rec.EndTime.Format(time.RFC3339)
		resp.EndTime = &v
	}
	return resp
}
