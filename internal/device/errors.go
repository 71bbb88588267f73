package device

import "errors"

var (
	// ErrInvalidResponse is returned when an API response lacks an expected
	// field or structural shape, or when required fields cannot be parsed
	// during device initialisation.
	ErrInvalidResponse = errors.New("device: invalid response")

	// ErrCallbackURLRequired is returned when the push notification switch is
	// turned on without a callback URL configured.
	ErrCallbackURLRequired = errors.New("device: callback url required")
)
