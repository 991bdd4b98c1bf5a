// Package errors provides structured error types for the cropforge application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the batch error taxonomy:
//   - INVALID_*: Configuration validation failures (fatal for the call,
//     rejected before any generation starts)
//   - PLACEMENT_FAILED / LAYOUT_FAILED / DECODE_FAILED: Recoverable
//     generation failures (absorbed and logged, batch continues)
//   - *_FAILED infrastructure codes: cache, registry, encoding, file IO
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "batch needs at least %d elements", min)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDecodeFailed, origErr, "decode element %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration validation errors (fatal for the call)
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidElements Code = "INVALID_ELEMENTS"
	ErrCodeInvalidCanvas   Code = "INVALID_CANVAS"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidDensity  Code = "INVALID_DENSITY"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidLayout   Code = "INVALID_LAYOUT"

	// Recoverable generation errors (logged, never abort the batch)
	ErrCodePlacementFailed Code = "PLACEMENT_FAILED"
	ErrCodeLayoutFailed    Code = "LAYOUT_FAILED"
	ErrCodeDecodeFailed    Code = "DECODE_FAILED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeRunNotFound  Code = "RUN_NOT_FOUND"

	// Infrastructure errors
	ErrCodeEncodeFailed   Code = "ENCODE_FAILED"
	ErrCodeCacheFailed    Code = "CACHE_FAILED"
	ErrCodeRegistryFailed Code = "REGISTRY_FAILED"
	ErrCodeIOFailed       Code = "IO_FAILED"

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

// IsRecoverable reports whether err is one of the recoverable generation
// failures (placement, layout candidate, or source decode). Recoverable
// errors are absorbed by batch orchestration; everything else aborts.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodePlacementFailed, ErrCodeLayoutFailed, ErrCodeDecodeFailed:
		return true
	}
	return false
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
