package schedule

import "errors"

var (
	ErrScheduleAssignmentNotFound = errors.New("schedule assignment not found")
	ErrEmployeeIDRequired         = errors.New("employee ID is required")
	ErrInvalidDateFormat          = errors.New("invalid date format, use YYYY-MM-DD")
)
