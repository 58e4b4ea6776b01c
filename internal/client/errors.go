package client

import "fmt"

// The backend is reached over the network only; every failure falls into one
// of these buckets. Callers show the message inline and stay interactive,
// nothing is retried automatically.

// TransportError wraps a network-level failure (DNS, connect, timeout).
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// APIError is a backend-reported application error: the envelope arrived
// with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// AuthError means the token was rejected (401) or the role does not grant
// access (403). The session itself is left intact by callers.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorization failed (status %d): %s", e.StatusCode, e.Message)
}

// ValidationError means the request was rejected before it was sent; the
// backend was never contacted.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
