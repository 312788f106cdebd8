package apperrors

import "errors"

var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrRUTRequired       = errors.New("rut is required")
	ErrRosterUnavailable = errors.New("roster source unavailable")
	ErrRosterMissingRUT  = errors.New("roster header has no rut column")
	ErrRosterEmpty       = errors.New("roster has no header row")
)
