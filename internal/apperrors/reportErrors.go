package apperrors

import "errors"

var (
	ErrNothingToExport = errors.New("no visits to export today")
)
