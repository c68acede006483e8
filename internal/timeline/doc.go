// Package timeline compiles a story into the time-ordered event list that
// playback walks.
//
// Compilation happens in two passes:
//
//	┌──────────────────────────────────────────────────────┐
//	│ 1. Resolve beat times (beats in ascending order)      │
//	│    timecode cue  >  tHint  >  running cursor (+3s)    │
//	│ 2. Build one event per cue at its beat's time         │
//	│    sort: t ascending, priority descending, stable     │
//	└──────────────────────────────────────────────────────┘
//
// Problems that do not prevent a timeline from being produced (two beats
// landing on the same second, cues whose beat has no time) are returned
// as warnings alongside the result.
//
// Compile is pure: the same story always yields a byte-identical timeline
// and the story is never modified. A Timeline is immutable once built;
// publishing replaces it wholesale.
package timeline
