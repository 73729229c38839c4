package report

import (
	"errors"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/stats"
)

var (
	ErrExportBlocked     = errors.New("project has pending entries for the period")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// SnapshotEntry is one rendered row of an attendance report.
type SnapshotEntry struct {
	UserName      string
	Date          string
	ClockIn       string
	ClockOut      string
	BreakMinutes  int
	WorkedHours   float64
	OvertimeHours float64
	LateMinutes   int
	Status        string
	Note          string
}

// Snapshot is the read-only view handed to a renderer. The workflow never
// shares mutable state with the rendering side: everything here is copied
// out before rendering starts.
type Snapshot struct {
	Title       string
	SubjectName string // user or project name
	PeriodYear  int
	PeriodMonth int
	GeneratedAt time.Time
	Entries     []SnapshotEntry
	Summaries   []stats.MonthlyStats
}

// PeriodLabel renders the snapshot period as "YYYY-MM".
func (s Snapshot) PeriodLabel() string {
	return time.Date(s.PeriodYear, time.Month(s.PeriodMonth), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Renderer turns a snapshot into an opaque binary artifact. The engine
// does not interpret the bytes.
type Renderer interface {
	Render(s Snapshot) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// Artifact is an export result ready to stream.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}
