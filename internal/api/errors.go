package api

import "errors"

// Domain-specific errors for Imou OpenAPI operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailed is returned when the HTTP request cannot be completed.
	ErrConnectionFailed = errors.New("api: connection failed")

	// ErrNotConnected is returned when a call requires an access token and the
	// client has not connected yet and cannot authenticate.
	ErrNotConnected = errors.New("api: client not connected")

	// ErrInvalidResponse is returned when the response envelope cannot be parsed
	// or lacks the expected result structure.
	ErrInvalidResponse = errors.New("api: invalid response")

	// ErrNotAuthorized is returned when the vendor rejects the app credentials
	// or the signature check fails.
	ErrNotAuthorized = errors.New("api: not authorized")

	// ErrAPIError is returned when the vendor reports a non-zero result code.
	ErrAPIError = errors.New("api: request failed")
)
