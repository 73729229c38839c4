package stats

// MonthlyStats is a derived, ephemeral roll-up of one user's time entries
// over a calendar month. Never persisted.
type MonthlyStats struct {
	UserID   string  `json:"user_id"`
	UserName *string `json:"user_name,omitempty"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`

	WorkingDays      int     `json:"working_days"`
	WorkDays         int     `json:"work_days"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	AverageWorkHours float64 `json:"average_work_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	LateCount        int     `json:"late_count"`
	LeaveDays        int     `json:"leave_days"`

	PendingCount  int `json:"pending_count"`
	ApprovedCount int `json:"approved_count"`
	RejectedCount int `json:"rejected_count"`

	AttendanceRate     float64 `json:"attendance_rate"`
	TransportationCost int     `json:"transportation_cost"`

	AverageClockIn  string `json:"average_clock_in"`  // HH:MM, "--:--" with no data
	AverageClockOut string `json:"average_clock_out"` // HH:MM, "--:--" with no data
}

// MemberRanking is one row of the company dashboard's top-by-hours list.
type MemberRanking struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	TotalWorkHours float64 `json:"total_work_hours"`
	WorkDays       int     `json:"work_days"`
	OvertimeHours  float64 `json:"overtime_hours"`
}

// CompanyStats is the company-wide roll-up for one calendar month.
type CompanyStats struct {
	CompanyID string `json:"company_id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`

	WorkingDays int `json:"working_days"`
	MemberCount int `json:"member_count"`

	TotalWorkHours     float64 `json:"total_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	LateCount          int     `json:"late_count"`
	TransportationCost int     `json:"transportation_cost"`

	PendingCount  int `json:"pending_count"`
	ApprovedCount int `json:"approved_count"`
	RejectedCount int `json:"rejected_count"`

	Rankings []MemberRanking `json:"rankings"`
}
