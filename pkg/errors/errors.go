// Package errors provides structured error types for dpvgen.
//
// Every fatal condition in a conversion run is reported as an [*Error] with a
// machine-readable [Code] and, where it applies, the input file and line that
// caused it. The CLI prints [Error.Error] verbatim, so messages are written
// for the operator who has to fix the input file.
//
// # Error Codes
//
// Input errors name the file kind they come from:
//   - MALFORMED_CATALOG_ROW, DUPLICATE_PART_NAME: stack file
//   - MALFORMED_POSITION_ROW: position file
//   - UNMATCHED_PART: a placed part has no feeder assignment
//   - ENCODING_ERROR: a value cannot be written in DPV form
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedCatalogRow, "stack number %q is not an integer", s).At("stack.csv", 4)
//	if errors.Is(err, errors.ErrCodeMalformedCatalogRow) {
//	    // Handle bad stack file
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input file errors
	ErrCodeMalformedCatalogRow  Code = "MALFORMED_CATALOG_ROW"
	ErrCodeDuplicatePartName    Code = "DUPLICATE_PART_NAME"
	ErrCodeMalformedPositionRow Code = "MALFORMED_POSITION_ROW"

	// Planning and output errors
	ErrCodeUnmatchedPart Code = "UNMATCHED_PART"
	ErrCodeEncoding      Code = "ENCODING_ERROR"

	// Option and configuration errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, an optional input location and
// an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	File    string // Input file the error refers to (optional)
	Line    int    // 1-based line in File, 0 if unknown
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At sets the input location of the error and returns it.
// A zero line keeps the error file-scoped.
func (e *Error) At(file string, line int) *Error {
	e.File = file
	e.Line = line
	return e
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
