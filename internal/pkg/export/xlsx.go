package export

import (
	"fmt"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

// XLSXRenderer writes an attendance snapshot as a spreadsheet with an
// entries sheet and a summary sheet.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) FileExtension() string {
	return "xlsx"
}

func (r *XLSXRenderer) Render(s report.Snapshot) ([]byte, error) {
	f := excelize.NewFile()

	entriesSheet := "Entries"
	index, err := f.NewSheet(entriesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create entries sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Member", "Date", "Clock In", "Clock Out", "Break (min)", "Worked (h)", "Overtime (h)", "Late (min)", "Status", "Note"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell name: %w", err)
		}
		f.SetCellValue(entriesSheet, cell, h)
	}

	for i, e := range s.Entries {
		row := i + 2
		f.SetCellValue(entriesSheet, fmt.Sprintf("A%d", row), e.UserName)
		f.SetCellValue(entriesSheet, fmt.Sprintf("B%d", row), e.Date)
		f.SetCellValue(entriesSheet, fmt.Sprintf("C%d", row), e.ClockIn)
		f.SetCellValue(entriesSheet, fmt.Sprintf("D%d", row), e.ClockOut)
		f.SetCellValue(entriesSheet, fmt.Sprintf("E%d", row), e.BreakMinutes)
		f.SetCellValue(entriesSheet, fmt.Sprintf("F%d", row), e.WorkedHours)
		f.SetCellValue(entriesSheet, fmt.Sprintf("G%d", row), e.OvertimeHours)
		f.SetCellValue(entriesSheet, fmt.Sprintf("H%d", row), e.LateMinutes)
		f.SetCellValue(entriesSheet, fmt.Sprintf("I%d", row), e.Status)
		f.SetCellValue(entriesSheet, fmt.Sprintf("J%d", row), e.Note)
	}

	f.SetColWidth(entriesSheet, "A", "A", 20)
	f.SetColWidth(entriesSheet, "B", "D", 12)
	f.SetColWidth(entriesSheet, "E", "H", 12)
	f.SetColWidth(entriesSheet, "I", "I", 12)
	f.SetColWidth(entriesSheet, "J", "J", 30)

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", s.Title)
	f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Period: %s", s.PeriodLabel()))
	f.SetCellValue(summarySheet, "A3", fmt.Sprintf("Generated: %s", s.GeneratedAt.Format("2006-01-02 15:04")))

	summaryHeaders := []string{"Member", "Work Days", "Total Hours", "Avg Hours", "Overtime", "Late Count", "Attendance %"}
	for i, h := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 5)
		if err != nil {
			return nil, fmt.Errorf("failed to build summary cell name: %w", err)
		}
		f.SetCellValue(summarySheet, cell, h)
	}

	for i, st := range s.Summaries {
		row := i + 6
		name := ""
		if st.UserName != nil {
			name = *st.UserName
		}
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), st.WorkDays)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), st.TotalWorkHours)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), st.AverageWorkHours)
		f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), st.OvertimeHours)
		f.SetCellValue(summarySheet, fmt.Sprintf("F%d", row), st.LateCount)
		f.SetCellValue(summarySheet, fmt.Sprintf("G%d", row), st.AttendanceRate)
	}

	f.SetColWidth(summarySheet, "A", "A", 20)
	f.SetColWidth(summarySheet, "B", "G", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
