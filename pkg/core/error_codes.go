package core

import "errors"

// ErrorCode represents a stable, machine-readable error identifier.
type ErrorCode string

// Error code constants define standardized error identifiers.
const (
	// ErrCodeNetwork indicates a network connectivity failure.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeTimeout indicates the request exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeServerError indicates an HTTP error status with a non-JSON body.
	ErrCodeServerError ErrorCode = "SERVER_ERROR"
	// ErrCodeProtocol indicates an unparseable body on a success status.
	ErrCodeProtocol ErrorCode = "PROTOCOL_ERROR"
	// ErrCodeNoCredentials indicates an authenticated call without an API key.
	ErrCodeNoCredentials ErrorCode = "NO_CREDENTIALS"
	// ErrCodeClientClosed indicates use of a closed client.
	ErrCodeClientClosed ErrorCode = "CLIENT_CLOSED"
	// ErrCodeInvalidConfig indicates a configuration validation failure.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// IsErrorCode checks if the error matches the specified error code.
func IsErrorCode(err error, code ErrorCode) bool {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return ErrorCode(exErr.Code) == code
	}
	return false
}
