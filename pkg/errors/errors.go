// Package errors provides structured error handling for the nested columnar
// engine. Every failure the engine reports carries an ErrorType so callers
// can branch on the category instead of matching message text.
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/nebula-nested/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeIndexOutOfRange represents a row index outside [0, len)
	ErrorTypeIndexOutOfRange ErrorType = "index_out_of_range"
	// ErrorTypeCapacityExceeded represents a write that needs more elements than were allocated
	ErrorTypeCapacityExceeded ErrorType = "capacity_exceeded"
	// ErrorTypeLengthMismatch represents a mask or parallel array of the wrong length
	ErrorTypeLengthMismatch ErrorType = "length_mismatch"
	// ErrorTypeMalformedLayout represents a population pass that disagrees with size estimation
	ErrorTypeMalformedLayout ErrorType = "malformed_layout"
	// ErrorTypeTypeMismatch represents a value whose kind does not match the declared shape
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeValidation represents invalid arguments
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// Sentinel errors for use with errors.Is. They match any *Error of the same type.
var (
	ErrIndexOutOfRange  = &Error{Type: ErrorTypeIndexOutOfRange}
	ErrCapacityExceeded = &Error{Type: ErrorTypeCapacityExceeded}
	ErrLengthMismatch   = &Error{Type: ErrorTypeLengthMismatch}
	ErrMalformedLayout  = &Error{Type: ErrorTypeMalformedLayout}
	ErrTypeMismatch     = &Error{Type: ErrorTypeTypeMismatch}
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Type == e.Type
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IndexOutOfRange builds the error reported for a row index outside [0, n).
func IndexOutOfRange(i, n int) *Error {
	return &Error{
		Type:    ErrorTypeIndexOutOfRange,
		Message: stringpool.Sprintf("index %d out of range [0, %d)", i, n),
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsFatal returns true if the error leaves buffers in an inconsistent state.
// Only malformed layouts are fatal; every other category is a caller error.
func IsFatal(err error) bool {
	return IsType(err, ErrorTypeMalformedLayout)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
