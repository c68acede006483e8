// Package playback walks a compiled timeline in real time.
//
// The Scheduler owns a Playhead (position, playing flag, fired set) and
// advances it on every tick by the wall-clock time that elapsed. Each
// tick fires the events whose time falls in (previous, new]; events are
// marked fired under the scheduler lock, in timeline order, before they
// are handed to the dispatch lane, so two ticks can never both claim the
// same event. The fired set is cleared only by Reset, Seek and Load.
//
//	┌──────────┐ tick  ┌───────────────┐ enqueue ┌──────────────┐
//	│ Run loop │──────▶│ Scheduler.Tick │────────▶│ dispatchLane │──▶ Dispatcher
//	└──────────┘       └───────────────┘         └──────────────┘
//	                         │ every report interval
//	                         ▼
//	                   PositionReporter(s)
//
// Dispatch runs on a single goroutine fed by a bounded queue of per-tick
// batches, so events reach the Dispatcher in timeline order. A slow or
// failing dispatch never stalls the tick loop; when the queue is full the
// tick's batch is dropped, counted and logged.
//
// Position reports are advisory: they are delivered by a separate
// goroutine that only ever holds the latest position, and their errors are
// logged at debug level and otherwise ignored.
//
// State is derived rather than stored: playing, paused (stopped with a
// nonzero position) or stopped.
package playback
