package response

import (
	"errors"
	"net/http"

	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/project"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/report"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/timeentry"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/worksettings"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrManagerRequired):
		Forbidden(w, "Manager role required")
	case errors.Is(err, user.ErrCompanyScopeDenied):
		Forbidden(w, "Not allowed for this scope")

	// Project domain errors
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")

	// Work settings domain errors
	case errors.Is(err, worksettings.ErrInvalidDate):
		BadRequest(w, "Invalid date", nil)

	// Time entry domain errors
	case errors.Is(err, timeentry.ErrEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrBreakNotFound):
		NotFound(w, "Break record not found")
	case errors.Is(err, timeentry.ErrNotClockedIn):
		Conflict(w, "Not clocked in")
	case errors.Is(err, timeentry.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out")
	case errors.Is(err, timeentry.ErrClockOutNotAfterIn):
		Conflict(w, "Clock-out must be after clock-in")
	case errors.Is(err, timeentry.ErrOpenBreakExists):
		Conflict(w, "An open break already exists")
	case errors.Is(err, timeentry.ErrBreakAlreadyClosed):
		Conflict(w, "Break already ended")
	case errors.Is(err, timeentry.ErrEntryNotPending):
		Conflict(w, "Time entry already processed")

	// Report domain errors
	case errors.Is(err, report.ErrExportBlocked):
		Conflict(w, "Project has pending entries for the period")
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported export format", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
