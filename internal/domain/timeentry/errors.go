package timeentry

import "errors"

// Time entry domain errors
var (
	// Punch state errors
	ErrEntryNotFound      = errors.New("time entry not found")
	ErrNotClockedIn       = errors.New("no clock-in recorded for this entry")
	ErrAlreadyClockedOut  = errors.New("clock-out has already been recorded")
	ErrClockOutNotAfterIn = errors.New("clock-out must be after clock-in")

	// Break errors
	ErrBreakNotFound      = errors.New("break record not found")
	ErrOpenBreakExists    = errors.New("an open break already exists for this entry")
	ErrBreakAlreadyClosed = errors.New("break has already been ended")

	// Approval errors
	ErrEntryNotPending = errors.New("time entry has already been approved or rejected")
)
