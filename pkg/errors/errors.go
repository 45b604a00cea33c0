// Package errors gives every failure a flowplan can report a stable code.
//
// The CLI prints the code next to the message and the HTTP API maps it to a
// status (see httputil.StatusFor). Codes group by prefix: INVALID_* for bad
// input, *NOT_FOUND for missing resources, and the execution codes for runs
// that were stopped.
//
//	err := errors.New(errors.ErrCodeInvalidBudget, "budget %d out of range", b)
//	err = errors.Wrap(errors.ErrCodeInvalidGraph, cause, "compile %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidGraph) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodeInvalidBudget   Code = "INVALID_BUDGET"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeTooLarge        Code = "TOO_LARGE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// A run that was stopped before finishing.
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeCanceled    Code = "CANCELED"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded failure with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := asError(err)
	return ok && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is err without the code prefix.
func UserMessage(err error) string {
	e, ok := asError(err)
	switch {
	case !ok:
		return err.Error()
	case e.Cause != nil:
		return e.Message + ": " + e.Cause.Error()
	default:
		return e.Message
	}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
