package story

import "fmt"

// Validation error codes.
const (
	CodeBeatMissingID      = "beat_missing_id"
	CodeDuplicateBeatID    = "duplicate_beat_id"
	CodeCueMissingID       = "cue_missing_id"
	CodeMissingBeat        = "missing_beat"
	CodeLightingStart      = "lighting_start_range"
	CodeLightingSlots      = "lighting_slots_exceed"
	CodeLightingLevel      = "lighting_level_range"
	CodeLightingUniverse   = "lighting_universe"
	CodeInvalidTriggerKind = "invalid_trigger_kind"
)

// ValidationError is one integrity problem in a story.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	BeatID  string `json:"beatId,omitempty"`
	CueID   string `json:"cueId,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// Messages returns the message of each error in order.
func Messages(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

// Validate checks referential and range integrity of s and returns every
// problem found. An empty result means the story can be published.
//
// Beats are checked before cues, each in document order. Every lighting
// rule is evaluated on its own so one cue can yield several errors.
// Validate never modifies s.
func Validate(s *Story) []ValidationError {
	if s == nil {
		return nil
	}

	var errs []ValidationError

	seen := make(map[string]struct{}, len(s.Beats))
	for _, b := range s.Beats {
		if b.ID == "" {
			errs = append(errs, ValidationError{
				Code:    CodeBeatMissingID,
				Message: "beat missing id",
			})
			continue
		}
		if _, dup := seen[b.ID]; dup {
			errs = append(errs, ValidationError{
				Code:    CodeDuplicateBeatID,
				Message: fmt.Sprintf("duplicate beat id %s", b.ID),
				BeatID:  b.ID,
			})
			continue
		}
		seen[b.ID] = struct{}{}
	}

	for _, c := range s.Cues {
		errs = append(errs, validateCue(c, seen)...)
	}

	return errs
}

func validateCue(c Cue, beats map[string]struct{}) []ValidationError {
	var errs []ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Code:    code,
			Message: fmt.Sprintf(format, args...),
			CueID:   c.ID,
			BeatID:  c.BeatID,
		})
	}

	if c.ID == "" {
		add(CodeCueMissingID, "cue missing id")
	}

	if c.BeatID != "" {
		if _, ok := beats[c.BeatID]; !ok {
			add(CodeMissingBeat, "cue %s references missing beatId %s", c.ID, c.BeatID)
		}
	}

	if c.IsLighting() {
		l := ParseLighting(c.Args)
		if l.Start < 1 || l.Start > SlotCount {
			add(CodeLightingStart, "cue %s lighting start out of range", c.ID)
		}
		if l.Start+l.Count-1 > SlotCount {
			add(CodeLightingSlots, "cue %s lighting slots exceed 512", c.ID)
		}
		if l.Level < 0 || l.Level > 1 {
			add(CodeLightingLevel, "cue %s lighting level 0..1", c.ID)
		}
		if l.Universe <= 0 {
			add(CodeLightingUniverse, "cue %s lighting universe must be >0", c.ID)
		}
	}

	if c.Trigger != nil && !validTriggerKind(c.Trigger.Kind) {
		add(CodeInvalidTriggerKind, "cue %s invalid trigger.kind", c.ID)
	}

	return errs
}

func validTriggerKind(kind string) bool {
	switch kind {
	case TriggerManual, TriggerState, TriggerTimecode:
		return true
	default:
		return false
	}
}
