package playback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/vixio-core/internal/timeline"
)

// ─── Mock Dependencies ──────────────────────────────────────────

type mockDispatcher struct {
	mu     sync.Mutex
	events []timeline.Event
	block  chan struct{} // when set, Dispatch waits on it
	panics string        // payload id that panics
}

func (m *mockDispatcher) Dispatch(_ context.Context, ev timeline.Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	block := m.block
	m.mu.Unlock()

	if ev.Payload.ID == m.panics {
		panic("adapter exploded")
	}
	if block != nil {
		<-block
	}
}

func (m *mockDispatcher) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Payload.ID
	}
	return out
}

type mockReporter struct {
	mu        sync.Mutex
	positions []float64
	err       error
}

func (m *mockReporter) ReportPosition(_ context.Context, seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append(m.positions, seconds)
	return m.err
}

func (m *mockReporter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.positions)
}

// ─── Test Helpers ───────────────────────────────────────────────

func ev(t float64, id string, priority int) timeline.Event {
	return timeline.Event{T: t, Payload: timeline.Payload{ID: id, Args: map[string]any{}}, Meta: timeline.EventMeta{Priority: priority}}
}

func newTestScheduler(t *testing.T, cfg Config, d Dispatcher, events ...timeline.Event) *Scheduler {
	t.Helper()
	if d == nil {
		d = &mockDispatcher{}
	}
	s := NewScheduler(cfg, d, nil)
	t.Cleanup(s.Close)
	s.Load(&timeline.Timeline{FPS: timeline.FPS, Events: events})
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func ids(events []timeline.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Payload.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ─── Tests ──────────────────────────────────────────────────────

func TestTransportStates(t *testing.T) {
	s := newTestScheduler(t, Config{}, nil, ev(5, "a", 50))

	steps := []struct {
		name  string
		do    func() Status
		state State
		pos   float64
	}{
		{name: "initial", do: s.Status, state: StateStopped, pos: 0},
		{name: "play", do: s.Play, state: StatePlaying, pos: 0},
		{name: "tick", do: func() Status { s.Tick(2 * time.Second); return s.Status() }, state: StatePlaying, pos: 2},
		{name: "pause", do: s.Pause, state: StatePaused, pos: 2},
		{name: "tick while paused", do: func() Status { s.Tick(time.Second); return s.Status() }, state: StatePaused, pos: 2},
		{name: "resume", do: s.Play, state: StatePlaying, pos: 2},
		{name: "reset", do: s.Reset, state: StateStopped, pos: 0},
		{name: "seek while stopped", do: func() Status { st, _ := s.Seek(7); return st }, state: StatePaused, pos: 7},
	}

	for _, step := range steps {
		st := step.do()
		if st.State != step.state || st.Position != step.pos {
			t.Fatalf("%s: state=%s pos=%v, want %s %v", step.name, st.State, st.Position, step.state, step.pos)
		}
	}
}

func TestTick_FiresWindow(t *testing.T) {
	s := newTestScheduler(t, Config{}, nil,
		ev(1, "one", 50), ev(2, "two", 50), ev(3, "three", 50))
	s.Play()

	tests := []struct {
		elapsed time.Duration
		want    []string
	}{
		{elapsed: 500 * time.Millisecond, want: nil},
		{elapsed: 500 * time.Millisecond, want: []string{"one"}},
		{elapsed: 1500 * time.Millisecond, want: []string{"two"}},
		{elapsed: 0, want: nil},
		{elapsed: 10 * time.Second, want: []string{"three"}},
		{elapsed: 10 * time.Second, want: nil},
	}
	for i, tt := range tests {
		got := ids(s.Tick(tt.elapsed))
		if !equalIDs(got, tt.want) {
			t.Errorf("tick %d fired %v, want %v", i, got, tt.want)
		}
	}
}

func TestTick_FiresEventsAtZeroOnFirstTick(t *testing.T) {
	s := newTestScheduler(t, Config{}, nil, ev(0, "opening", 80), ev(0, "house", 50), ev(1, "later", 50))
	s.Play()

	if got := ids(s.Tick(10 * time.Millisecond)); !equalIDs(got, []string{"opening", "house"}) {
		t.Errorf("first tick fired %v", got)
	}
	if got := s.Tick(10 * time.Millisecond); len(got) != 0 {
		t.Errorf("second tick fired %v", ids(got))
	}
}

func TestTick_TimelineOrderWithinTick(t *testing.T) {
	d := &mockDispatcher{}
	s := newTestScheduler(t, Config{}, d,
		ev(1, "hi", 90), ev(1, "mid", 50), ev(1, "lo", 10), ev(2, "next", 99))
	s.Play()

	want := []string{"hi", "mid", "lo", "next"}
	if got := ids(s.Tick(3 * time.Second)); !equalIDs(got, want) {
		t.Fatalf("Tick fired %v, want %v", got, want)
	}
	waitFor(t, "dispatch", func() bool { return len(d.ids()) == 4 })
	if got := d.ids(); !equalIDs(got, want) {
		t.Errorf("dispatch order %v, want %v", got, want)
	}
}

func TestDispatch_OrderHoldsUnderDefaultConfig(t *testing.T) {
	var (
		events []timeline.Event
		want   []string
	)
	for i := range 8 {
		id := fmt.Sprintf("e%d", i)
		events = append(events, ev(1, id, 90-i))
		want = append(want, id)
	}
	for i := range 8 {
		id := fmt.Sprintf("f%d", i)
		events = append(events, ev(1.5, id, 90-i))
		want = append(want, id)
	}

	for trial := range 50 {
		d := &mockDispatcher{}
		s := NewScheduler(Config{}, d, nil)
		s.Load(&timeline.Timeline{FPS: timeline.FPS, Events: events})
		s.Play()
		s.Tick(1200 * time.Millisecond)
		s.Tick(time.Second)

		waitFor(t, "dispatch", func() bool { return len(d.ids()) == len(want) })
		s.Close()
		if got := d.ids(); !equalIDs(got, want) {
			t.Fatalf("trial %d: dispatch order %v, want %v", trial, got, want)
		}
	}
}

func TestTick_ConcurrentTicksFireOnce(t *testing.T) {
	var events []timeline.Event
	for i := range 100 {
		events = append(events, ev(float64(i)/10, "e", 50))
	}
	s := newTestScheduler(t, Config{QueueSize: 1024}, nil, events...)
	s.Play()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				n := len(s.Tick(30 * time.Millisecond))
				mu.Lock()
				total += n
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if total != 100 {
		t.Errorf("fired %d events, want 100", total)
	}
	if st := s.Status(); st.Fired != 100 {
		t.Errorf("Status.Fired = %d, want 100", st.Fired)
	}
}

func TestSeek_ClearsFiredSet(t *testing.T) {
	s := newTestScheduler(t, Config{}, nil, ev(1, "a", 50), ev(2, "b", 50), ev(4, "c", 50))
	s.Play()

	if got := ids(s.Tick(3 * time.Second)); !equalIDs(got, []string{"a", "b"}) {
		t.Fatalf("first pass fired %v", got)
	}

	st, err := s.Seek(0.5)
	if err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if st.Fired != 0 || st.State != StatePlaying {
		t.Errorf("after seek: %+v", st)
	}

	if got := ids(s.Tick(2 * time.Second)); !equalIDs(got, []string{"a", "b"}) {
		t.Errorf("second pass fired %v, want [a b]", got)
	}
	if got := ids(s.Tick(2 * time.Second)); !equalIDs(got, []string{"c"}) {
		t.Errorf("third tick fired %v, want [c]", got)
	}
}

func TestSeek_ForwardSkipsCrossedEvents(t *testing.T) {
	s := newTestScheduler(t, Config{}, nil, ev(1, "a", 50), ev(5, "b", 50))
	s.Play()
	s.Tick(10 * time.Millisecond)

	if _, err := s.Seek(3); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if got := ids(s.Tick(3 * time.Second)); !equalIDs(got, []string{"b"}) {
		t.Errorf("fired %v, want [b]", got)
	}
}

func TestSeek_Clamps(t *testing.T) {
	s := newTestScheduler(t, Config{MaxDuration: 30 * time.Second}, nil, ev(45, "late", 50))

	tests := []struct {
		seek float64
		want float64
	}{
		{seek: -5, want: 0},
		{seek: 12.5, want: 12.5},
		{seek: 1000, want: 45},
	}
	for _, tt := range tests {
		st, err := s.Seek(tt.seek)
		if err != nil || st.Position != tt.want {
			t.Errorf("Seek(%v) = %v, %v; want %v", tt.seek, st.Position, err, tt.want)
		}
	}

	if _, err := s.Seek(math.NaN()); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Seek(NaN) error = %v, want ErrInvalidPosition", err)
	}
}

func TestReset(t *testing.T) {
	s := newTestScheduler(t, Config{}, nil, ev(1, "a", 50))
	s.Play()
	s.Tick(2 * time.Second)

	st := s.Reset()
	if st.State != StateStopped || st.Position != 0 || st.Fired != 0 {
		t.Errorf("Reset() = %+v", st)
	}

	s.Play()
	if got := ids(s.Tick(2 * time.Second)); !equalIDs(got, []string{"a"}) {
		t.Errorf("after reset fired %v, want [a]", got)
	}
}

func TestTick_StopsAtDuration(t *testing.T) {
	s := newTestScheduler(t, Config{MaxDuration: 10 * time.Second}, nil, ev(9, "a", 50))

	var (
		mu      sync.Mutex
		changes []State
	)
	s.OnChange(func(st Status) {
		mu.Lock()
		changes = append(changes, st.State)
		mu.Unlock()
	})

	s.Play()
	s.Tick(time.Minute)

	st := s.Status()
	if st.Position != 10 || st.State != StatePaused || st.Fired != 1 {
		t.Errorf("Status = %+v, want paused at 10 with one fired", st)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 2 || changes[0] != StatePlaying || changes[1] != StatePaused {
		t.Errorf("changes = %v, want [playing paused]", changes)
	}
}

func TestDuration_ExtendsToLastEvent(t *testing.T) {
	s := newTestScheduler(t, Config{MaxDuration: 10 * time.Second}, nil, ev(200, "finale", 50))
	s.Play()

	if got := ids(s.Tick(5 * time.Minute)); !equalIDs(got, []string{"finale"}) {
		t.Errorf("fired %v, want [finale]", got)
	}
	if st := s.Status(); st.Duration != 200 || st.Position != 200 {
		t.Errorf("Status = %+v", st)
	}
}

func TestLoad_ClearsFiredKeepsPosition(t *testing.T) {
	s := newTestScheduler(t, Config{}, nil, ev(1, "a", 50))
	s.Play()
	s.Tick(2 * time.Second)

	s.Load(&timeline.Timeline{FPS: 30, Events: []timeline.Event{ev(3, "b", 50)}})

	st := s.Status()
	if st.Fired != 0 || st.Position != 2 || st.State != StatePlaying || st.Events != 1 {
		t.Errorf("Status after Load = %+v", st)
	}
	if got := ids(s.Tick(2 * time.Second)); !equalIDs(got, []string{"b"}) {
		t.Errorf("fired %v, want [b]", got)
	}
}

func TestDispatchFailureIsContained(t *testing.T) {
	d := &mockDispatcher{panics: "boom"}
	s := newTestScheduler(t, Config{}, d, ev(1, "boom", 90), ev(1, "after", 50), ev(2, "later", 50))
	s.Play()

	if got := s.Tick(3 * time.Second); len(got) != 3 {
		t.Fatalf("fired %d events, want 3", len(got))
	}
	waitFor(t, "all dispatches", func() bool { return len(d.ids()) == 3 })
}

func TestDispatchQueueOverflowDrops(t *testing.T) {
	d := &mockDispatcher{block: make(chan struct{})}
	s := newTestScheduler(t, Config{QueueSize: 1}, d,
		ev(1, "a", 50), ev(2, "b", 50), ev(3, "c", 60), ev(3, "d", 50))
	defer close(d.block)
	s.Play()

	s.Tick(1500 * time.Millisecond)
	waitFor(t, "lane busy", func() bool { return len(d.ids()) == 1 })

	// b fills the queue; the whole batch at t=3 overflows.
	s.Tick(time.Second)
	s.Tick(time.Second)
	st := s.Status()
	if st.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", st.Dropped)
	}
	if st.Fired != 4 {
		t.Errorf("Fired = %d, want 4", st.Fired)
	}
}

func TestRun_ReportsPosition(t *testing.T) {
	rep := &mockReporter{err: errors.New("sync endpoint down")}
	d := &mockDispatcher{}
	s := NewScheduler(Config{TickInterval: 5 * time.Millisecond, ReportInterval: 10 * time.Millisecond}, d, nil, rep)
	defer s.Close()
	s.Load(&timeline.Timeline{FPS: 30, Events: []timeline.Event{ev(0.02, "cue", 50)}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Play()
	waitFor(t, "position reports", func() bool { return rep.count() >= 3 })
	waitFor(t, "dispatch", func() bool { return len(d.ids()) == 1 })

	if st := s.Status(); st.State != StatePlaying || st.Position <= 0 {
		t.Errorf("Status = %+v, want playing past zero", st)
	}
}

func TestRun_NoReportsWhilePaused(t *testing.T) {
	rep := &mockReporter{}
	s := NewScheduler(Config{TickInterval: 5 * time.Millisecond, ReportInterval: 5 * time.Millisecond}, &mockDispatcher{}, nil, rep)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	time.Sleep(60 * time.Millisecond)
	if rep.count() != 0 {
		t.Errorf("reports while stopped = %d, want 0", rep.count())
	}
}

func TestHTTPReporter(t *testing.T) {
	var (
		mu   sync.Mutex
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		mu.Lock()
		body = string(buf[:n])
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r := NewHTTPReporter(srv.URL+"/playhead", nil)
	if err := r.ReportPosition(context.Background(), 12.5); err != nil {
		t.Fatalf("ReportPosition() error = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if body != `{"seconds":12.5}` {
		t.Errorf("body = %q", body)
	}
}

func TestHTTPReporter_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTPReporter(srv.URL, nil).ReportPosition(context.Background(), 1)
	if !errors.Is(err, ErrReportFailed) {
		t.Errorf("error = %v, want ErrReportFailed", err)
	}
}

func TestPlayhead(t *testing.T) {
	p := NewPlayhead()
	if !p.Claim(3) {
		t.Fatal("first Claim(3) = false")
	}
	if p.Claim(3) {
		t.Error("second Claim(3) = true")
	}
	if !p.HasFired(3) || p.HasFired(4) {
		t.Error("HasFired mismatch")
	}
	p.ClearFired()
	if p.FiredCount() != 0 || !p.Claim(3) {
		t.Error("ClearFired did not start a new epoch")
	}
}
