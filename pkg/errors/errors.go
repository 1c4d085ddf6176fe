// Package errors provides structured error types for nmanet.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Classes
//
// Network construction distinguishes three classes of data errors, all of
// which abort the run:
//   - INVALID_SCHEMA / INVALID_VALUE: expected columns absent or malformed
//   - DANGLING_REFERENCE: an edge references a treatment missing from the nodes
//   - DEGENERATE_INPUT: zero studies, zero treatments, or an empty study
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSchema, "column %q has no arm suffix", name)
//	if errors.Is(err, errors.ErrCodeInvalidSchema) {
//	    // Handle schema error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Data errors
	ErrCodeInvalidSchema     Code = "INVALID_SCHEMA"
	ErrCodeInvalidValue      Code = "INVALID_VALUE"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeDegenerateInput   Code = "DEGENERATE_INPUT"
	ErrCodeUnrankedTreatment Code = "UNRANKED_TREATMENT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeUnknownModel  Code = "UNKNOWN_MODEL"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
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
// For *Error types, returns the message chain without code prefixes.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}

// IsDataError reports whether err belongs to one of the input-data classes
// (schema, value, referential, degenerate).
func IsDataError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidSchema, ErrCodeInvalidValue, ErrCodeDanglingReference, ErrCodeDegenerateInput:
		return true
	}
	return false
}
