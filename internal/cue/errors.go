package cue

import "errors"

// Domain errors for the cue package.
var (
	// ErrUpstream is returned when the upstream cue engine cannot be reached.
	ErrUpstream = errors.New("cue: upstream engine unreachable")

	// ErrQueueFull is returned when the local queue is at capacity.
	ErrQueueFull = errors.New("cue: queue full")

	// ErrNoEngine is returned when neither an upstream engine nor the local
	// queue is configured.
	ErrNoEngine = errors.New("cue: no cue engine configured")

	errMissingAddress = errors.New("cue: osc event has no address")
)
