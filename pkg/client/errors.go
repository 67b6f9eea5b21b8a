package client

import (
	"fmt"
)

// APIError represents an error status returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("loopblock: API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsInternal returns true if the error is a 500 Internal Server Error.
func (e *APIError) IsInternal() bool {
	return e.StatusCode == 500
}

// ConnectionError represents a connection error.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("loopblock: connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
