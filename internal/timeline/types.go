package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FPS is the frame rate stamped on every compiled timeline.
const FPS = 30

// ErrInvalidTimeline is returned when a document cannot be decoded as a timeline.
var ErrInvalidTimeline = errors.New("timeline: invalid document")

// Timeline is a compiled, time-ordered list of dispatchable events.
type Timeline struct {
	FPS      int      `json:"fps"`
	Events   []Event  `json:"events"`
	Warnings []string `json:"warnings,omitempty"`
}

// Event is one cue placed at an absolute time in seconds.
type Event struct {
	T       float64   `json:"t"`
	Payload Payload   `json:"payload"`
	Meta    EventMeta `json:"meta"`
}

// Payload is what gets dispatched when the event fires.
// ID is the cue type (lighting.fade, osc.send, ...).
type Payload struct {
	ID   string         `json:"id"`
	Args map[string]any `json:"args"`
}

// EventMeta carries ordering metadata.
type EventMeta struct {
	Priority int `json:"priority"`
}

// Default returns the empty timeline served before anything was published.
func Default() *Timeline {
	return &Timeline{FPS: FPS, Events: []Event{}}
}

// Decode parses a timeline document.
func Decode(data []byte) (*Timeline, error) {
	var tl Timeline
	if err := json.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimeline, err)
	}
	if tl.FPS == 0 {
		tl.FPS = FPS
	}
	if tl.Events == nil {
		tl.Events = []Event{}
	}
	return &tl, nil
}

// End returns the time of the last event, or 0 for an empty timeline.
func (tl *Timeline) End() float64 {
	if tl == nil {
		return 0
	}
	end := 0.0
	for _, ev := range tl.Events {
		if ev.T > end {
			end = ev.T
		}
	}
	return end
}
