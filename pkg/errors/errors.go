// Package errors provides structured error types for module-walker.
//
// Every failure a walk can report carries a machine-readable [Code] together
// with the context needed to act on it: the file being processed, the
// specifier as written by the dependent, a source location, or the cycle
// trail. Callers branch on the code; users read the message.
//
// # Error Codes
//
//   - FILE_READ_ERROR: a file could not be read
//   - BAD_DEPENDENCY_USAGE: a malformed require/import under strict checks
//   - PARSE_ERROR: a source file does not parse
//   - MODULE_NOT_FOUND: the resolver exhausted every candidate
//   - DISALLOWED_ABSOLUTE_DEPENDENCY: an absolute specifier under a reject policy
//   - CYCLIC_DEPENDENCY: a new edge closes a cycle under a reject policy
//   - TRANSFORM_STAGE_ERROR: a transform stage failed
//   - INVALID_*: configuration validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeModuleNotFound, "cannot find module %q", spec)
//	err.Path = dependent
//	if errors.Is(err, errors.ErrCodeModuleNotFound) {
//	    // Handle missing module
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileRead, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for walk failures.
const (
	// Walk errors
	ErrCodeFileRead            Code = "FILE_READ_ERROR"
	ErrCodeBadDependencyUsage  Code = "BAD_DEPENDENCY_USAGE"
	ErrCodeParse               Code = "PARSE_ERROR"
	ErrCodeModuleNotFound      Code = "MODULE_NOT_FOUND"
	ErrCodeDisallowedAbsolute  Code = "DISALLOWED_ABSOLUTE_DEPENDENCY"
	ErrCodeCyclicDependency    Code = "CYCLIC_DEPENDENCY"
	ErrCodeTransformStageError Code = "TRANSFORM_STAGE_ERROR"

	// Input validation errors
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code      Code     // Machine-readable error code
	Message   string   // Human-readable message
	Path      string   // File being processed, if any
	Specifier string   // Dependency specifier as written, if any
	Location  string   // Source location text ("Line N: Column M"), if any
	Trail     []string // Cycle trail node ids, for CYCLIC_DEPENDENCY
	Cause     error    // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Location != "" {
		msg = e.Location + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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

// WithPath sets Path and returns e.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithSpecifier sets Specifier and returns e.
func (e *Error) WithSpecifier(spec string) *Error {
	e.Specifier = spec
	return e
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

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
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
		if e.Location != "" {
			return e.Location + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
