package ops

import (
	"errors"
	"fmt"
)

// ErrorClass classifies a codec failure for caller recovery logic.
type ErrorClass string

const (
	// ErrorClassInvalidArgument indicates a required input was absent.
	// This is a caller contract violation and is never retried.
	ErrorClassInvalidArgument ErrorClass = "invalid-argument"

	// ErrorClassInvalidFormat indicates a malformed string failed a parse
	// step. The caller should treat the source string as corrupt or
	// foreign and discard or log it.
	ErrorClassInvalidFormat ErrorClass = "invalid-format"
)

// OpsError is a classified codec error with the offending input attached.
type OpsError struct {
	// Class is the error classification.
	Class ErrorClass

	// Message is the human-readable error message.
	Message string

	// Input is the string being parsed when the error occurred, if any.
	Input string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *OpsError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Input != "" {
		msg = fmt.Sprintf("%s (input=%q)", msg, e.Input)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *OpsError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *OpsError) Is(target error) bool {
	t, ok := target.(*OpsError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// NewInvalidArgumentError creates an error for an absent required input.
func NewInvalidArgumentError(message string) *OpsError {
	return &OpsError{
		Class:   ErrorClassInvalidArgument,
		Message: message,
	}
}

// NewInvalidFormatError creates an error for a malformed input string.
func NewInvalidFormatError(message, input string) *OpsError {
	return &OpsError{
		Class:   ErrorClassInvalidFormat,
		Message: message,
		Input:   input,
	}
}

// IsInvalidArgument returns true if the error is a caller contract violation.
func IsInvalidArgument(err error) bool {
	var e *OpsError
	if errors.As(err, &e) {
		return e.Class == ErrorClassInvalidArgument
	}
	return false
}

// IsInvalidFormat returns true if the error reports a malformed input string.
func IsInvalidFormat(err error) bool {
	var e *OpsError
	if errors.As(err, &e) {
		return e.Class == ErrorClassInvalidFormat
	}
	return false
}
