package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes every handler has to map to a
// status code. Wrap them with fmt.Errorf("...: %w", ...) where more detail
// is useful.
var (
	ErrSchemaNotFound     = errors.New("form not found or inactive")
	ErrPersistenceFailure = errors.New("storage operation failed")
)

// AccessDeniedError is an acceptance-gate failure. The message is already
// user-facing ("Login required to submit this form", etc).
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string {
	return e.Message
}

func AccessDenied(message string) error {
	return &AccessDeniedError{Message: message}
}

func IsAccessDenied(err error) bool {
	var ade *AccessDeniedError
	return errors.As(err, &ade)
}

// ValidationError carries every field-level message collected during a
// submission attempt, in evaluation order. Never just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationMessages returns the per-field breakdown if err is a
// ValidationError, or nil.
func ValidationMessages(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}
	return nil
}
