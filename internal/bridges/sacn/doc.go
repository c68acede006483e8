// Package sacn sends DMX512 levels as ANSI E1.31 (Streaming ACN).
//
// Delivery has two paths, tried in order:
//
//	┌──────────────┐  error   ┌──────────────────────────┐
//	│ Direct (UDP) │─────────▶│ Bridge (HTTP POST levels) │
//	└──────────────┘          └──────────────────────────┘
//
// Direct mode builds a 638-byte E1.31 data packet and writes it on a UDP
// handle cached per destination host. When direct mode is off or the
// write fails, levels are posted to a bridge process (cmd/sacn-bridge)
// that runs next to the DMX hardware. With neither path available the
// send fails.
//
// Levels are clamped to 0..255 before either path sees them.
//
// Server exposes the bridge side: an HTTP handler that accepts posted
// levels and sends them directly.
package sacn
