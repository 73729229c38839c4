package export

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/report"
)

// PDFRenderer writes an attendance snapshot as a printable report.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) FileExtension() string {
	return "pdf"
}

func (r *PDFRenderer) Render(s report.Snapshot) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(15, 10, 15)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(s.Title, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s / %s", s.SubjectName, s.PeriodLabel()), props.Text{
					Top:   2,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  11,
				})
			})
		})
	})

	headers := []string{"Member", "Date", "In", "Out", "Break", "Hours", "OT", "Status"}
	grid := []uint{3, 2, 1, 1, 1, 1, 1, 2}

	rows := make([][]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, []string{
			e.UserName,
			e.Date,
			e.ClockIn,
			e.ClockOut,
			fmt.Sprintf("%dm", e.BreakMinutes),
			fmt.Sprintf("%.2f", e.WorkedHours),
			fmt.Sprintf("%.2f", e.OvertimeHours),
			e.Status,
		})
	}

	m.TableList(headers, rows, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      9,
			GridSizes: grid,
		},
		ContentProp: props.TableListContent{
			Size:      9,
			GridSizes: grid,
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	})

	m.Row(8, func() {})

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Monthly Summary", props.Text{
				Top:   3,
				Style: consts.Bold,
				Size:  12,
			})
		})
	})

	summaryHeaders := []string{"Member", "Days", "Hours", "Avg", "OT", "Late", "Rate"}
	summaryGrid := []uint{4, 1, 2, 1, 1, 1, 2}

	summaryRows := make([][]string, 0, len(s.Summaries))
	for _, st := range s.Summaries {
		name := ""
		if st.UserName != nil {
			name = *st.UserName
		}
		summaryRows = append(summaryRows, []string{
			name,
			fmt.Sprintf("%d", st.WorkDays),
			fmt.Sprintf("%.2f", st.TotalWorkHours),
			fmt.Sprintf("%.2f", st.AverageWorkHours),
			fmt.Sprintf("%.2f", st.OvertimeHours),
			fmt.Sprintf("%d", st.LateCount),
			fmt.Sprintf("%.1f%%", st.AttendanceRate),
		})
	}

	m.TableList(summaryHeaders, summaryRows, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      9,
			GridSizes: summaryGrid,
		},
		ContentProp: props.TableListContent{
			Size:      9,
			GridSizes: summaryGrid,
		},
		Align:              consts.Center,
		HeaderContentSpace: 1,
		Line:               false,
	})

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Generated at %s", s.GeneratedAt.Format("2006-01-02 15:04")), props.Text{
				Top:   6,
				Style: consts.Italic,
				Align: consts.Right,
				Size:  8,
			})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}
