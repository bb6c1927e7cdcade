package report

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrReportApproved     = errors.New("approved reports cannot be edited")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrMissingClient      = errors.New("client ID is required")
	ErrMissingMood        = errors.New("mood is required")
	ErrMissingEngagement  = errors.New("engagement is required")
	ErrMissingObservation = errors.New("observations are required")
)

// ValidationError blocks submission entirely and names the offending field
// so the form can show a field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
