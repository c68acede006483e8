// Package story defines the story graph authored by the editor and the
// validator that decides whether a story may be published.
//
// A story is a set of narrative beats and the device cues bound to them.
// The core only reads stories: Validate is a pure function that reports
// every referential or range problem it finds, and the timeline package
// compiles a valid story into a playable timeline.
//
// Numeric cue arguments arrive from JSON editors with loose typing, so
// argument lookups accept any Go numeric type, json.Number, or a numeric
// string.
package story
