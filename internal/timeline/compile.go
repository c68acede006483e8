package timeline

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/nerrad567/vixio-core/internal/story"
)

// BeatSpacing is the gap in seconds between consecutive beats that have
// neither a timecode cue nor a tHint.
const BeatSpacing = 3.0

// Compile flattens s into a timeline. Warnings are returned separately
// and also recorded on the timeline.
func Compile(s *story.Story) (*Timeline, []string) {
	tl := Default()
	if s == nil {
		return tl, nil
	}

	times, warnings := ResolveBeatTimes(s)

	events := make([]Event, 0, len(s.Cues))
	for _, c := range s.Cues {
		t, ok := times[c.BeatID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("cue %s missing beat time", c.ID))
			continue
		}
		events = append(events, Event{
			T: t,
			Payload: Payload{
				ID:   c.Type,
				Args: copyArgs(c.Args),
			},
			Meta: EventMeta{Priority: c.EffectivePriority()},
		})
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		if c := cmp.Compare(a.T, b.T); c != 0 {
			return c
		}
		return cmp.Compare(b.Meta.Priority, a.Meta.Priority)
	})

	tl.Events = events
	if len(warnings) > 0 {
		tl.Warnings = warnings
	}
	return tl, warnings
}

// ResolveBeatTimes assigns an absolute time to every beat with an id.
// Beats are visited in ascending order (stable on ties). For each beat the
// first well-formed timecode cue wins, then tHint, then the running
// cursor, which advances by BeatSpacing each time it is used.
//
// A beat landing on a time already taken by an earlier beat produces a
// collision warning; both keep the time.
func ResolveBeatTimes(s *story.Story) (map[string]float64, []string) {
	timecodes := make(map[string]float64)
	for _, c := range s.Cues {
		if c.Trigger == nil || c.Trigger.Kind != story.TriggerTimecode {
			continue
		}
		if _, seen := timecodes[c.BeatID]; seen {
			continue
		}
		if t, ok := ParseTimecode(c.Trigger.TC); ok {
			timecodes[c.BeatID] = t
		}
	}

	beats := slices.Clone(s.Beats)
	slices.SortStableFunc(beats, func(a, b story.Beat) int {
		return cmp.Compare(a.Order, b.Order)
	})

	var (
		warnings []string
		cursor   float64
		times    = make(map[string]float64, len(beats))
		taken    = make(map[float64]struct{}, len(beats))
	)
	for _, b := range beats {
		var t float64
		if tc, ok := timecodes[b.ID]; ok {
			t = tc
		} else if b.TimeHint != nil {
			t = *b.TimeHint
		} else {
			t = cursor
			cursor += BeatSpacing
		}

		if _, clash := taken[t]; clash {
			warnings = append(warnings, "time collision at "+strconv.FormatFloat(t, 'f', -1, 64)+"s")
		}
		taken[t] = struct{}{}

		if b.ID != "" {
			times[b.ID] = t
		}
	}
	return times, warnings
}

// copyArgs deep-copies cue args so the timeline never aliases the story.
// A nil map becomes an empty one.
func copyArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyArgs(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
