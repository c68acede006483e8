package sacn

import "errors"

// Domain errors for the sACN adapter.
var (
	// ErrNoRoute is returned when direct mode is off and no bridge is configured.
	ErrNoRoute = errors.New("sacn: no delivery path configured")

	// ErrInvalidUniverse is returned for universes outside 1..63999.
	ErrInvalidUniverse = errors.New("sacn: universe must be between 1 and 63999")

	// ErrDirectFailed wraps UDP transport failures.
	ErrDirectFailed = errors.New("sacn: direct send failed")

	// ErrBridgeFailed wraps bridge request failures and non-2xx replies.
	ErrBridgeFailed = errors.New("sacn: bridge request failed")

	// ErrInvalidPacket is returned when a datagram is not an E1.31 data packet.
	ErrInvalidPacket = errors.New("sacn: invalid packet")
)
