package connector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType classifies connector failures for retry and fallback logic.
type ErrorType int8

const (
	// Retryable error types.

	// ErrorTypeRateLimit represents rate limiting errors (429, quota exceeded).
	ErrorTypeRateLimit ErrorType = iota
	// ErrorTypeTransient represents transient errors (5xx, EOF, connection reset, timeout).
	ErrorTypeTransient
	// ErrorTypeEmptyResponse represents a 200 response carrying no content.
	ErrorTypeEmptyResponse

	// Non-retryable error types.

	// ErrorTypeAuth represents authentication errors (401/403, bad API key).
	ErrorTypeAuth
	// ErrorTypeBadPrompt represents malformed request errors.
	ErrorTypeBadPrompt
	// ErrorTypeUnavailable represents a transport that cannot serve queries
	// at all (probe failed, stub transport, missing client).
	ErrorTypeUnavailable
	// ErrorTypeExhausted represents a chain whose every connector failed.
	ErrorTypeExhausted
	// ErrorTypeUnknown represents unclassified errors.
	ErrorTypeUnknown
)

// String returns the string representation of the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeEmptyResponse:
		return "empty_response"
	case ErrorTypeAuth:
		return "auth"
	case ErrorTypeBadPrompt:
		return "bad_prompt"
	case ErrorTypeUnavailable:
		return "unavailable"
	case ErrorTypeExhausted:
		return "exhausted"
	case ErrorTypeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Error is a classified connector error.
type Error struct {
	Err        error     // Wrapped underlying error
	Message    string    // Human-readable error message
	Agent      string    // Agent the query was for
	Type       ErrorType // Classified error type
	StatusCode int       // HTTP status code if applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := "connector error"
	if e.Agent != "" {
		prefix = fmt.Sprintf("connector error [%s]", e.Agent)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s (%s): %s", prefix, e.Type.String(), e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", prefix, e.Type.String(), e.Err)
	}
	return fmt.Sprintf("%s (%s): status %d", prefix, e.Type.String(), e.StatusCode)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns whether this error type should be retried on the
// same connector. Uses a blocklist: everything is retryable unless
// explicitly non-retryable.
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeAuth, ErrorTypeBadPrompt, ErrorTypeUnavailable, ErrorTypeExhausted:
		return false
	default:
		return true
	}
}

// Is checks if an error is of a specific connector error type.
func Is(err error, errorType ErrorType) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Type == errorType
	}
	return false
}

// TypeOf returns the error type of an error, or ErrorTypeUnknown if not classified.
func TypeOf(err error) ErrorType {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Type
	}
	return ErrorTypeUnknown
}

// IsRetryable reports whether err should be retried on the same connector.
// Unclassified errors are pattern-matched like classified unknowns.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.IsRetryable()
	}
	return classifyMessage(err.Error()) == ErrorTypeTransient
}

// NewError creates a new classified connector error.
func NewError(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// NewErrorWithStatus creates a classified connector error with HTTP status.
func NewErrorWithStatus(errorType ErrorType, statusCode int, message string) *Error {
	return &Error{Type: errorType, StatusCode: statusCode, Message: message}
}

// NewErrorWithCause creates a classified connector error wrapping another error.
func NewErrorWithCause(errorType ErrorType, cause error, message string) *Error {
	return &Error{Type: errorType, Err: cause, Message: message}
}

// NewExhaustedError creates the error returned when every connector in an
// agent's chain has failed.
func NewExhaustedError(agent string, attempts int, cause error) *Error {
	return &Error{
		Type:    ErrorTypeExhausted,
		Agent:   agent,
		Err:     cause,
		Message: fmt.Sprintf("all %d connectors failed", attempts),
	}
}

// ClassifyStatus maps an HTTP status code to an error type.
func ClassifyStatus(status int) ErrorType {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuth
	case status == http.StatusBadRequest || status == http.StatusRequestEntityTooLarge || status == http.StatusUnprocessableEntity:
		return ErrorTypeBadPrompt
	case status >= 500:
		return ErrorTypeTransient
	default:
		return ErrorTypeUnknown
	}
}

// Classify wraps an arbitrary error as a classified connector error based
// on its message. Already-classified errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}
	return &Error{Type: classifyMessage(err.Error()), Err: err}
}

func classifyMessage(msg string) ErrorType {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "rate") || strings.Contains(lower, "429") || strings.Contains(lower, "quota"):
		return ErrorTypeRateLimit
	case strings.Contains(lower, "401") || strings.Contains(lower, "403") ||
		strings.Contains(lower, "unauthorized") || strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "api key") || strings.Contains(lower, "authentication"):
		return ErrorTypeAuth
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "connection") ||
		strings.Contains(lower, "network") || strings.Contains(lower, "temporary") ||
		strings.Contains(lower, "eof") ||
		strings.Contains(lower, "500") || strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") || strings.Contains(lower, "504"):
		return ErrorTypeTransient
	case strings.Contains(lower, "400") || strings.Contains(lower, "too long") ||
		strings.Contains(lower, "invalid request"):
		return ErrorTypeBadPrompt
	default:
		return ErrorTypeUnknown
	}
}
