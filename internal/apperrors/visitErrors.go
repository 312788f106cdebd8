package apperrors

import "errors"

var (
	ErrOutsideMealWindow = errors.New("outside of allowed meal window")
	ErrAlreadyRegistered = errors.New("visit already registered for this meal today")
	ErrJournalRejected   = errors.New("remote journal rejected the request")
	ErrJournalStatus     = errors.New("remote journal returned unexpected status")
)

// DuplicateVisitError carries the meal a repeated check-in was refused for.
type DuplicateVisitError struct {
	Meal string
}

func (e *DuplicateVisitError) Error() string {
	return ErrAlreadyRegistered.Error() + ": " + e.Meal
}

func (e *DuplicateVisitError) Unwrap() error {
	return ErrAlreadyRegistered
}
