// Package api implements the HTTP API and preview WebSocket of Vixio Core.
//
// This package provides:
//   - story editing and publishing (GET/POST /story, POST /story/publish)
//   - timeline read and replace (GET/POST /timeline)
//   - ad-hoc cue triggers relayed to the cue engine (POST /cue/trigger)
//   - playhead sync and transport control (/playhead, /playback/*)
//   - a WebSocket hub that mirrors cues, timelines and the playhead to
//     previz clients (GET /ws)
//
// # Security
//
// Mutating endpoints require "Authorization: Bearer <token>" when
// security.bearer_token is set. Reads and the preview socket are open.
//
// # Compatibility
//
// Paths and the legacy error bodies ({"error": "upstream_error", ...})
// match what existing editors and previz clients expect. Every error body
// also carries the structured status/code/message fields.
package api
