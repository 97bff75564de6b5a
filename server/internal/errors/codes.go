package errors

import (
	"fmt"
)

// ErrorCode classifies a pipeline failure for API responses and logs.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeStoreUnavailable indicates the store could not serve the query.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeLLMUnavailable indicates the LLM service is not available.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an unclassified internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// PipelineError is a structured error carrying a code for transport mapping.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// StoreUnavailable creates a store unavailable error.
func StoreUnavailable(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeStoreUnavailable, Message: msg, Cause: cause}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeLLMUnavailable, Message: msg}
}

// Timeout creates a timeout error.
func Timeout(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with a code.
func Wrap(cause error, code ErrorCode, msg string) *PipelineError {
	return &PipelineError{Code: code, Message: msg, Cause: cause}
}

// CodeOf extracts the error code from any error, falling back to the given
// default for plain errors.
func CodeOf(err error, defaultCode ErrorCode) ErrorCode {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Code
	}
	return defaultCode
}
