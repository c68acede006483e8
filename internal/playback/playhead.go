package playback

// State is the transport state of the scheduler.
type State string

// Transport states.
const (
	StateStopped State = "stopped"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// Playhead is the runtime cursor over a timeline.
//
// Fired events are identified by their index in the loaded timeline,
// which is stable because a timeline is never modified in place.
type Playhead struct {
	Position float64
	Playing  bool

	fired map[int]struct{}
}

// NewPlayhead returns a stopped playhead at zero.
func NewPlayhead() Playhead {
	return Playhead{fired: make(map[int]struct{})}
}

// State derives the transport state.
func (p *Playhead) State() State {
	switch {
	case p.Playing:
		return StatePlaying
	case p.Position != 0:
		return StatePaused
	default:
		return StateStopped
	}
}

// Claim marks event i fired. It reports false when i already fired in
// this epoch.
func (p *Playhead) Claim(i int) bool {
	if _, ok := p.fired[i]; ok {
		return false
	}
	p.fired[i] = struct{}{}
	return true
}

// HasFired reports whether event i fired in this epoch.
func (p *Playhead) HasFired(i int) bool {
	_, ok := p.fired[i]
	return ok
}

// FiredCount returns the size of the fired set.
func (p *Playhead) FiredCount() int {
	return len(p.fired)
}

// ClearFired starts a new epoch.
func (p *Playhead) ClearFired() {
	clear(p.fired)
}
