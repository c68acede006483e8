// Package bridges holds what the protocol adapters share: the outcome of a
// send and the logging contract.
//
// Adapters never return transport failures as Go errors through the
// scheduler. A send yields a Result that tells the caller whether the
// frame was delivered, whether the adapter is switched off, or whether the
// transport failed (with the cause attached for logging).
//
// Subpackages:
//
//   - osc:  OSC over UDP with a single cached destination handle
//   - sacn: E1.31 (sACN) DMX with direct send and HTTP bridge fallback
package bridges
