package store

import "time"

// Document kinds stored in the documents table.
const (
	KindStory    = "story"
	KindTimeline = "timeline"
)

// DefaultPublishLimit is the page size used by ListPublishes when the
// caller passes a limit below 1.
const DefaultPublishLimit = 50

// Publish is one row of publish history.
type Publish struct {
	ID          string        `json:"id"`
	PublishedAt time.Time     `json:"published_at"`
	EventCount  int           `json:"events"`
	Warnings    []string      `json:"warnings"`
	Duration    time.Duration `json:"-"`

	// DurationMS mirrors Duration for JSON consumers.
	DurationMS int64 `json:"duration_ms"`
}
