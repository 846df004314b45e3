// Package errors provides structured error types for cardsheet.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_* / UNKNOWN_*: configuration and input faults
//   - *NOT_FOUND: missing files, layouts or images
//   - INTERNAL_*: unexpected internal errors
//
// Validation findings (an image without dimensions, a back page that does not
// line up with its front) are not errors in this sense. They are reported as
// lists of messages by the layout and align packages so that callers can
// decide whether to continue.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownPageSize, "unknown page size: %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownPageSize) {
//	    // Handle configuration error
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
	// Configuration and input errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidSettings   Code = "INVALID_SETTINGS"
	ErrCodeUnknownPageSize   Code = "UNKNOWN_PAGE_SIZE"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeUnsupportedImage  Code = "UNSUPPORTED_IMAGE"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodeLayoutNotFound Code = "LAYOUT_NOT_FOUND"

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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConfiguration reports whether err is a caller configuration fault
// (bad settings, unknown page size, bad dimensions or manifest).
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidSettings, ErrCodeUnknownPageSize,
		ErrCodeInvalidDimensions, ErrCodeInvalidFormat, ErrCodeInvalidPath,
		ErrCodeInvalidManifest, ErrCodeUnsupportedImage:
		return true
	}
	return false
}
