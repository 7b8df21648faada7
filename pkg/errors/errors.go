// Package errors provides structured error types for skinsuite.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can map
// them to exit codes, status codes and user-facing messages without string
// matching.
//
// # Error Codes
//
// The codes mirror the four failure classes of weight editing:
//   - EMPTY_SELECTION: nothing usable was selected, the operation is a no-op
//   - IO_FAULT: a snapshot file or store could not be read or written
//   - INTERNAL_INVARIANT: computed data failed a consistency check
//   - INVALID_INPUT / NOT_FOUND: bad arguments or unknown vertices/groups
//
// Weight lookups that find no entry are not errors; they read as 0.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptySelection, "no weight data found in selection")
//	if errors.Is(err, errors.ErrCodeEmptySelection) {
//	    // report and carry on
//	}
//
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read clipboard %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidGroup Code = "INVALID_GROUP"
	ErrCodeInvalidRange Code = "INVALID_RANGE"
	ErrCodeInvalidMesh  Code = "INVALID_MESH"

	// Recoverable user-facing conditions
	ErrCodeEmptySelection Code = "EMPTY_SELECTION"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeGroupNotFound   Code = "GROUP_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Snapshot and store failures
	ErrCodeIO Code = "IO_FAULT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeInvariant   Code = "INTERNAL_INVARIANT"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsRecoverable reports whether err describes a condition the user should be
// told about without failing the command, such as an empty selection.
func IsRecoverable(err error) bool {
	return Is(err, ErrCodeEmptySelection)
}
