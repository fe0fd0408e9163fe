// Package errors provides structured error types for uniquepfp.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the pipeline and the orchestrator
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - RENDER_*: Outcomes of a render pass
//   - INTERNAL_*: Unexpected internal errors
//
// Rendering distinguishes exactly two failure kinds. RENDER_ABORTED marks a
// pass that observed cancellation at one of its checkpoints; callers swallow
// it. RENDER_FAILED marks everything else (for example a canvas refusing the
// finished buffer) and is propagated.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMode, "unknown mode: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidMode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderAborted, ctx.Err(), "render aborted")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidUsername Code = "INVALID_USERNAME"
	ErrCodeInvalidMode     Code = "INVALID_MODE"
	ErrCodeInvalidSize     Code = "INVALID_SIZE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Render outcomes
	ErrCodeRenderAborted Code = "RENDER_ABORTED"
	ErrCodeRenderFailed  Code = "RENDER_FAILED"

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

// Is reports whether any *Error in err's chain carries code. Unlike a single
// errors.As, it keeps unwrapping past outer coded errors, so an abort wrapped
// as a failure by a caller is still recognized as an abort.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage formats err for terminal output: the messages along the chain
// joined by ": ", without code prefixes.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	msg := e.Message
	// Keep context added by fmt.Errorf("...: %w") in front of the coded error.
	if outer, inner := err.Error(), e.Error(); outer != inner && strings.HasSuffix(outer, inner) {
		msg = strings.TrimSuffix(outer, inner) + msg
	}
	if e.Cause != nil {
		msg += ": " + UserMessage(e.Cause)
	}
	return msg
}
