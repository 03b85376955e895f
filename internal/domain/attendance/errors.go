package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = errors.New("employee has already checked in for this date")
	ErrNotCheckedIn      = errors.New("employee has not checked in for this date")
	ErrAlreadyCheckedOut = errors.New("employee has already checked out for this date")
	ErrInvalidMinutes    = errors.New("minutes must be greater than zero")
	ErrUnknownCommand    = errors.New("unknown attendance command")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
