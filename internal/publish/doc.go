// Package publish turns the saved story into the live timeline.
//
// Publish validates the stored story, compiles it, persists the timeline
// and a history row, then hands the timeline to the playback scheduler
// and announces it to preview listeners. A story that fails validation
// never reaches the store or the scheduler.
package publish
