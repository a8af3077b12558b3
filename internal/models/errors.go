package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrEmptyRoster    = errors.New("roster must contain at least one entrant")
	ErrRunnerNotFound = errors.New("runner not found in roster")
	ErrInvalidBet     = errors.New("invalid bet")
)

// ValidationError is a coded validation failure surfaced to callers.
type ValidationError struct {
	Code    string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}
