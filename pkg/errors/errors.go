// Package errors provides structured error types for the photobook engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the model, export pipeline, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Guard codes (UNKNOWN_LAYOUT, ZONE_INDEX_OUT_OF_RANGE, PAGE_INDEX_OUT_OF_RANGE)
// signal a caller bug: the operation is rejected and the document is left
// unchanged. CANNOT_REMOVE_LAST_PAGE is a user-facing no-op guard.
// IMAGE_DECODE_FAILURE is never returned by an export; it is attached to
// export warnings instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownLayout, "unknown layout %q", key)
//	if errors.Is(err, errors.ErrCodeUnknownLayout) {
//	    // Handle guard failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model guards
	ErrCodeUnknownLayout        Code = "UNKNOWN_LAYOUT"
	ErrCodeCannotRemoveLastPage Code = "CANNOT_REMOVE_LAST_PAGE"
	ErrCodeZoneIndexOutOfRange  Code = "ZONE_INDEX_OUT_OF_RANGE"
	ErrCodePageIndexOutOfRange  Code = "PAGE_INDEX_OUT_OF_RANGE"

	// Rendering
	ErrCodeImageDecode Code = "IMAGE_DECODE_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"

	// Resource and network errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsGuard reports whether err is one of the structural guards raised by the
// document model. Guard failures are fatal to the operation only.
func IsGuard(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownLayout, ErrCodeCannotRemoveLastPage,
		ErrCodeZoneIndexOutOfRange, ErrCodePageIndexOutOfRange:
		return true
	}
	return false
}
