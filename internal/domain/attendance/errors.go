package attendance

import "errors"

// Attendance domain errors
var (
	// Session transition errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrAlreadyOnBreak    = errors.New("you are already on a break")
	ErrNotOnBreak        = errors.New("you are not on a break")
	ErrOnBreak           = errors.New("resume from your break before checking out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance record already exists for this date")
	ErrInvalidDateRange   = errors.New("invalid date range")
)
