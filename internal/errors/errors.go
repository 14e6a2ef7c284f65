// Package errors provides the structured error type returned by every
// recipe operation, so callers can branch on a code instead of parsing text.
//
//	err := errors.WrapWithContext(errors.ErrCodeNetwork, "list recipes", cause,
//	    map[string]any{"url": url})
//	if errors.CodeOf(err) == errors.ErrCodeNetwork { ... }
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a failure.
type ErrorCode string

const (
	// ErrCodeNetwork indicates the request never produced a response.
	ErrCodeNetwork ErrorCode = "NETWORK"
	// ErrCodeUnexpectedStatus indicates a response outside the 2xx range.
	ErrCodeUnexpectedStatus ErrorCode = "UNEXPECTED_STATUS"
	// ErrCodeDecode indicates a response body that is not the expected JSON.
	ErrCodeDecode ErrorCode = "DECODE"
	// ErrCodeInvalidRequest indicates a request that could not be built.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeNotFound indicates a recipe id missing from the current list.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeNotEditing indicates a save with no active edit.
	ErrCodeNotEditing ErrorCode = "NOT_EDITING"
	// ErrCodeCanceled indicates the caller's context ended first.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeInternal indicates anything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries a code, a message, the underlying cause and
// optional context for logging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext creates a StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap wraps an existing error.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext wraps an error with context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the first StructuredError in err's chain,
// ErrCodeInternal for other errors and "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// LogAttrs flattens the error into slog key/value pairs.
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	var se *StructuredError
	if stderrors.As(err, &se) {
		attrs = append(attrs, "code", string(se.Code))
		for k, v := range se.Context {
			attrs = append(attrs, k, v)
		}
	}
	return attrs
}
