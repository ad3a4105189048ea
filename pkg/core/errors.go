package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of a client or exchange error.
type ErrorType int

// Error type constants categorize errors for programmatic handling.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a transport-level failure before a
	// response was received.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeAuthentication indicates missing or invalid credentials.
	ErrorTypeAuthentication
	// ErrorTypeServerError indicates an HTTP error status with a body that
	// is not valid JSON.
	ErrorTypeServerError
	// ErrorTypeProtocol indicates a response body that is not valid JSON on
	// a success status.
	ErrorTypeProtocol
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"NETWORK",
		"TIMEOUT",
		"AUTHENTICATION",
		"SERVER_ERROR",
		"PROTOCOL",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrAuthRequired is returned when an authenticated method is called on
	// a client constructed without an API key. It is raised before any
	// network I/O happens.
	ErrAuthRequired = errors.New("authentication required: no API key configured")
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
)

// ExchangeError represents a structured error surfaced from the request
// pipeline or the exchange itself.
type ExchangeError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code from the response, if any.
	StatusCode int `json:"status_code"`
	// Code is a stable machine-readable error identifier.
	Code string `json:"code"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`

	err error
}

// Error implements the error interface for ExchangeError.
func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[youngplatform] %s (%d/%s): %s", e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[youngplatform] %s (%d): %s", e.Type, e.StatusCode, e.Message)
}

// Unwrap returns the underlying error, if any, so errors.Is and errors.As
// see through the wrapper.
func (e *ExchangeError) Unwrap() error {
	return e.err
}

// WithCode returns the error with the specified error code set.
func (e *ExchangeError) WithCode(code ErrorCode) *ExchangeError {
	e.Code = string(code)
	return e
}

// WithCause attaches the underlying error.
func (e *ExchangeError) WithCause(err error) *ExchangeError {
	e.err = err
	return e
}

// NewExchangeError creates a new ExchangeError with the specified details.
// The timestamp is automatically set to the current time.
func NewExchangeError(errorType ErrorType, statusCode int, message string) *ExchangeError {
	return &ExchangeError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now(),
	}
}

// IsNetworkError returns true if the error is a transport-level failure.
func IsNetworkError(err error) bool {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeNetwork
	}
	return false
}

// IsAuthenticationError returns true if the error is an authentication
// failure, including the pre-flight guard on authenticated methods.
func IsAuthenticationError(err error) bool {
	if errors.Is(err, ErrAuthRequired) {
		return true
	}
	var e *ExchangeError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeAuthentication
	}
	return false
}

// IsTimeoutError returns true if the request exceeded its deadline.
func IsTimeoutError(err error) bool {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeTimeout
	}
	return false
}

// IsServerError returns true if the error is a status-based failure with a
// non-JSON body.
func IsServerError(err error) bool {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeServerError
	}
	return false
}

// IsProtocolError returns true if the error is a JSON parse failure on a
// success status.
func IsProtocolError(err error) bool {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeProtocol
	}
	return false
}
