package osc

import "errors"

// Domain errors for the OSC adapter.
var (
	// ErrInvalidAddress is returned when an OSC address does not start with "/".
	ErrInvalidAddress = errors.New("osc: address must start with /")

	// ErrNoDestination is returned when neither the call nor the
	// configuration names a host and port.
	ErrNoDestination = errors.New("osc: no destination")

	// ErrSendFailed wraps transport failures.
	ErrSendFailed = errors.New("osc: send failed")
)
