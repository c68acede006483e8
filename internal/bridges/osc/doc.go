// Package osc sends Open Sound Control messages over UDP.
//
// The Adapter keeps at most one live UDP handle. A send to a different
// host:port closes the cached handle before dialling the new destination,
// so a process never holds more than one OSC socket.
//
// Numeric JSON arguments are encoded as int32 when integral and float32
// otherwise, which is what sound and media servers expect.
package osc
