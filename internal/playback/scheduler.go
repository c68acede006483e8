package playback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nerrad567/vixio-core/internal/timeline"
)

// Default scheduler settings.
const (
	DefaultMaxDuration    = 120 * time.Second
	DefaultTickInterval   = 20 * time.Millisecond
	DefaultReportInterval = 100 * time.Millisecond
	DefaultQueueSize      = 256
)

// Logger defines the logging interface used by the Scheduler.
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

// Dispatcher delivers a fired event. Implementations contain their own
// failures; nothing is returned to the scheduler.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev timeline.Event)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, ev timeline.Event)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, ev timeline.Event) {
	f(ctx, ev)
}

// PositionReporter receives periodic position reports while playing.
type PositionReporter interface {
	ReportPosition(ctx context.Context, seconds float64) error
}

// Config configures a Scheduler. Zero values take the defaults above.
type Config struct {
	// MaxDuration is the minimum playable length; a timeline ending later
	// extends it to its last event.
	MaxDuration    time.Duration
	TickInterval   time.Duration
	ReportInterval time.Duration
	// QueueSize bounds how many ticks' worth of fired events may wait
	// for dispatch.
	QueueSize      int
}

func (c Config) withDefaults() Config {
	if c.MaxDuration <= 0 {
		c.MaxDuration = DefaultMaxDuration
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = DefaultReportInterval
	}
	if c.QueueSize < 1 {
		c.QueueSize = DefaultQueueSize
	}
	return c
}

// Status is a snapshot of the scheduler.
type Status struct {
	State    State   `json:"state"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Events   int     `json:"events"`
	Fired    int     `json:"fired"`
	Dropped  uint64  `json:"dropped"`
}

// Scheduler fires timeline events as a playhead crosses them.
//
// All methods are safe for concurrent use. Tick may be driven by Run or
// called directly.
type Scheduler struct {
	cfg       Config
	reporters []PositionReporter
	logger    Logger
	lane      *dispatchLane

	mu          sync.Mutex
	tl          *timeline.Timeline
	head        Playhead
	sinceReport float64

	reportCh chan float64
	onChange func(Status)
}

// NewScheduler creates a scheduler with an empty timeline and starts its
// dispatch workers. Call Close to stop them.
func NewScheduler(cfg Config, dispatcher Dispatcher, logger Logger, reporters ...PositionReporter) *Scheduler {
	if logger == nil {
		logger = noopLogger{}
	}
	cfg = cfg.withDefaults()
	return &Scheduler{
		cfg:       cfg,
		reporters: reporters,
		logger:    logger,
		lane:      newDispatchLane(dispatcher, cfg.QueueSize, logger),
		tl:        timeline.Default(),
		head:      NewPlayhead(),
		reportCh:  make(chan float64, 1),
	}
}

// OnChange registers a callback invoked after every transport change
// (play, pause, reset, seek, load and reaching the end). It must not
// call back into the scheduler.
func (s *Scheduler) OnChange(fn func(Status)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load replaces the timeline. The fired set is cleared; position and
// transport state are kept.
func (s *Scheduler) Load(tl *timeline.Timeline) {
	if tl == nil {
		tl = timeline.Default()
	}
	s.mu.Lock()
	s.tl = tl
	s.head.ClearFired()
	st, fn := s.statusLocked(), s.onChange
	s.mu.Unlock()

	s.logger.Info("timeline loaded", "events", len(tl.Events), "duration", st.Duration)
	notify(fn, st)
}

// Timeline returns the loaded timeline. Callers must not modify it.
func (s *Scheduler) Timeline() *timeline.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl
}

// Play starts or resumes playback.
func (s *Scheduler) Play() Status {
	return s.transport("play", func() {
		s.head.Playing = true
	})
}

// Pause freezes the position.
func (s *Scheduler) Pause() Status {
	return s.transport("pause", func() {
		s.head.Playing = false
	})
}

// Reset stops playback, rewinds to zero and clears the fired set.
func (s *Scheduler) Reset() Status {
	return s.transport("reset", func() {
		s.head.Playing = false
		s.head.Position = 0
		s.head.ClearFired()
		s.sinceReport = 0
	})
}

// Seek moves the playhead to seconds, clamped to the playable duration,
// and clears the fired set. The transport state is unchanged.
func (s *Scheduler) Seek(seconds float64) (Status, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return s.Status(), ErrInvalidPosition
	}
	return s.transport("seek", func() {
		s.head.Position = math.Max(0, math.Min(seconds, s.durationLocked()))
		s.head.ClearFired()
	}), nil
}

func (s *Scheduler) transport(action string, fn func()) Status {
	s.mu.Lock()
	fn()
	st, cb := s.statusLocked(), s.onChange
	s.mu.Unlock()

	s.logger.Debug("playback transport", "action", action, "state", st.State, "position", st.Position)
	notify(cb, st)
	return st
}

// Tick advances a playing playhead by elapsed and fires every event in
// (previous, new] that has not fired in this epoch, in timeline order. A
// tick starting at position zero also fires events at or before zero.
// The position stops at the playable duration, which pauses playback.
//
// Tick returns the events it handed to the dispatch lane.
func (s *Scheduler) Tick(elapsed time.Duration) []timeline.Event {
	if elapsed < 0 {
		elapsed = 0
	}

	s.mu.Lock()
	if !s.head.Playing {
		s.mu.Unlock()
		return nil
	}

	prev := s.head.Position
	duration := s.durationLocked()
	next := math.Min(prev+elapsed.Seconds(), duration)
	s.head.Position = next

	var due []timeline.Event
	for i, ev := range s.tl.Events {
		if ev.T > next {
			continue
		}
		if ev.T <= prev && prev > 0 {
			continue
		}
		if s.head.Claim(i) {
			due = append(due, ev)
		}
	}

	ended := next >= duration
	if ended {
		s.head.Playing = false
	}

	s.sinceReport += next - prev
	report := s.sinceReport >= s.cfg.ReportInterval.Seconds()
	if report || ended {
		s.sinceReport = 0
	}

	// Enqueued under the lock so concurrent ticks reach the lane in the
	// order they claimed their events.
	s.lane.enqueue(due)

	var (
		st Status
		cb func(Status)
	)
	if ended {
		st, cb = s.statusLocked(), s.onChange
	}
	s.mu.Unlock()

	if report || ended {
		s.queueReport(next)
	}
	if ended {
		s.logger.Info("playback reached end", "position", next)
		notify(cb, st)
	}
	return due
}

// Status returns a snapshot of the scheduler.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Scheduler) statusLocked() Status {
	return Status{
		State:    s.head.State(),
		Position: s.head.Position,
		Duration: s.durationLocked(),
		Events:   len(s.tl.Events),
		Fired:    s.head.FiredCount(),
		Dropped:  s.lane.dropped.Load(),
	}
}

func (s *Scheduler) durationLocked() float64 {
	return math.Max(s.cfg.MaxDuration.Seconds(), s.tl.End())
}

// queueReport hands the position to the report loop, replacing any
// report that has not been sent yet.
func (s *Scheduler) queueReport(seconds float64) {
	if len(s.reporters) == 0 {
		return
	}
	for {
		select {
		case s.reportCh <- seconds:
			return
		default:
		}
		select {
		case <-s.reportCh:
		default:
		}
	}
}

// Run drives Tick from a ticker using wall-clock elapsed time and delivers
// position reports until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	go s.reportLoop(ctx)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			s.Tick(elapsed)
		}
	}
}

func (s *Scheduler) reportLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case seconds := <-s.reportCh:
			for _, r := range s.reporters {
				reportCtx, cancel := context.WithTimeout(ctx, s.cfg.ReportInterval*5)
				if err := r.ReportPosition(reportCtx, seconds); err != nil {
					s.logger.Debug("position report failed", "seconds", seconds, "error", err)
				}
				cancel()
			}
		}
	}
}

// Close stops the dispatch workers. Events still queued are discarded.
func (s *Scheduler) Close() {
	s.lane.close()
}

func notify(fn func(Status), st Status) {
	if fn != nil {
		fn(st)
	}
}
