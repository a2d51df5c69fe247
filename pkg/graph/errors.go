package graph

import (
	"errors"
	"fmt"
)

// ErrorType classifies graph errors.
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeMalformedInput ErrorType = "MALFORMED_INPUT"
)

// Error is returned by every fallible graph operation.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Sentinels for errors.Is. They match any *Error of the same type.
var (
	ErrNotFound       = &Error{Type: ErrorTypeNotFound}
	ErrMalformedInput = &Error{Type: ErrorTypeMalformedInput}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches sentinels by type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Type == e.Type
}

func notFound(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func malformed(cause error, format string, args ...any) *Error {
	return &Error{Type: ErrorTypeMalformedInput, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsMalformedInput reports whether err is a malformed-input error.
func IsMalformedInput(err error) bool { return errors.Is(err, ErrMalformedInput) }
