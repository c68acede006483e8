package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/vixio-core/internal/store"
	"github.com/nerrad567/vixio-core/internal/story"
	"github.com/nerrad567/vixio-core/internal/timeline"
)

// ChannelTimeline is the preview channel a new timeline is announced on.
const ChannelTimeline = "timeline"

// Logger is the logging interface used by the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// TimelineLoader receives each newly live timeline. playback.Scheduler
// implements it.
type TimelineLoader interface {
	Load(tl *timeline.Timeline)
}

// Broadcaster announces messages to preview listeners.
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// Metrics records publish statistics.
type Metrics interface {
	WriteTimelinePublish(events, warnings int, duration time.Duration)
}

// Deps holds the Service's collaborators. Only Store is required.
type Deps struct {
	Store   store.Repository
	Loader  TimelineLoader
	Hub     Broadcaster
	Metrics Metrics
	Logger  Logger
}

// Service implements story saving, publishing and timeline replacement.
type Service struct {
	store   store.Repository
	loader  TimelineLoader
	hub     Broadcaster
	metrics Metrics
	logger  Logger
	now     func() time.Time
}

// Summary is the result of a successful publish.
type Summary struct {
	ID       string   `json:"id"`
	Events   int      `json:"events"`
	Warnings []string `json:"warnings"`
}

// NewService creates a publish service.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Service{
		store:   deps.Store,
		loader:  deps.Loader,
		hub:     deps.Hub,
		metrics: deps.Metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// SaveStory validates s and stores it. A story with validation errors is
// rejected with *ValidationFailedError and nothing is written.
func (s *Service) SaveStory(ctx context.Context, st *story.Story) error {
	if errs := story.Validate(st); len(errs) > 0 {
		return &ValidationFailedError{Errors: errs}
	}
	st.Normalize()
	if err := s.store.PutStory(ctx, st); err != nil {
		return fmt.Errorf("saving story: %w", err)
	}
	s.logger.Info("story saved", "beats", len(st.Beats), "cues", len(st.Cues))
	return nil
}

// Publish compiles the saved story and makes it the live timeline.
func (s *Service) Publish(ctx context.Context) (*Summary, error) {
	start := s.now()

	st, err := s.store.LoadStory(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoStory
	}
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	if errs := story.Validate(st); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	tl, warnings := timeline.Compile(st)
	if warnings == nil {
		warnings = []string{}
	}
	if err := s.store.PutTimeline(ctx, tl); err != nil {
		return nil, fmt.Errorf("saving timeline: %w", err)
	}

	elapsed := s.now().Sub(start)
	record := &store.Publish{EventCount: len(tl.Events), Warnings: warnings, Duration: elapsed}
	if err := s.store.RecordPublish(ctx, record); err != nil {
		// History is best effort.
		s.logger.Warn("recording publish failed", "error", err)
	}

	s.activate(tl)
	if s.metrics != nil {
		s.metrics.WriteTimelinePublish(len(tl.Events), len(warnings), elapsed)
	}

	s.logger.Info("timeline published", "id", record.ID, "events", len(tl.Events), "warnings", len(warnings))
	for _, w := range warnings {
		s.logger.Warn("publish warning", "warning", w)
	}
	return &Summary{ID: record.ID, Events: len(tl.Events), Warnings: warnings}, nil
}

// ReplaceTimeline stores tl as the live timeline without compiling.
func (s *Service) ReplaceTimeline(ctx context.Context, tl *timeline.Timeline) error {
	if tl == nil {
		return fmt.Errorf("%w: nil timeline", timeline.ErrInvalidTimeline)
	}
	if err := s.store.PutTimeline(ctx, tl); err != nil {
		return fmt.Errorf("saving timeline: %w", err)
	}
	s.activate(tl)
	s.logger.Info("timeline replaced", "events", len(tl.Events))
	return nil
}

// Restore loads the stored timeline into the scheduler at startup.
func (s *Service) Restore(ctx context.Context) (*timeline.Timeline, error) {
	tl, err := s.store.GetTimeline(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading timeline: %w", err)
	}
	if s.loader != nil {
		s.loader.Load(tl)
	}
	return tl, nil
}

func (s *Service) activate(tl *timeline.Timeline) {
	if s.loader != nil {
		s.loader.Load(tl)
	}
	if s.hub != nil {
		s.hub.Broadcast(ChannelTimeline, tl)
	}
}
