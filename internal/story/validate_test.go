package story

import (
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func lightingCue(id string, args map[string]any) Cue {
	return Cue{ID: id, BeatID: "b1", Type: "lighting.fade", Args: args}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		story    *Story
		expected []string
	}{
		{
			name: "valid story",
			story: &Story{
				Beats: []Beat{{ID: "b1", Order: 1}, {ID: "b2", Order: 2}},
				Cues: []Cue{
					lightingCue("c1", map[string]any{"start": 1.0, "count": 4.0, "level": 0.5, "universe": 1.0}),
					{ID: "c2", BeatID: "b2", Type: "media.play", Trigger: &Trigger{Kind: TriggerTimecode, TC: "00:00:10"}},
					{ID: "c3", BeatID: "b2", Type: "osc.send", Trigger: &Trigger{Kind: TriggerState, When: "door.open"}},
				},
			},
			expected: nil,
		},
		{
			name:     "empty story",
			story:    Default(),
			expected: nil,
		},
		{
			name: "beat missing id",
			story: &Story{
				Beats: []Beat{{ID: ""}},
			},
			expected: []string{"beat missing id"},
		},
		{
			name: "duplicate beat reported per extra occurrence",
			story: &Story{
				Beats: []Beat{{ID: "b1"}, {ID: "b1"}, {ID: "b2"}, {ID: "b1"}},
			},
			expected: []string{"duplicate beat id b1", "duplicate beat id b1"},
		},
		{
			name: "cue missing id",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{{BeatID: "b1", Type: "media.play"}},
			},
			expected: []string{"cue missing id"},
		},
		{
			name: "missing beat reference",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{{ID: "c1", BeatID: "nope", Type: "media.play"}},
			},
			expected: []string{"cue c1 references missing beatId nope"},
		},
		{
			name: "cue without beat is not a reference error",
			story: &Story{
				Cues: []Cue{{ID: "c1", Type: "media.play"}},
			},
			expected: nil,
		},
		{
			name: "lighting slots exceed 512",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{lightingCue("c1", map[string]any{"start": 510.0, "count": 5.0, "level": 1.0, "universe": 1.0})},
			},
			expected: []string{"cue c1 lighting slots exceed 512"},
		},
		{
			name: "lighting rules evaluated independently",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{lightingCue("c1", map[string]any{"start": 600.0, "level": 1.5, "universe": 0.0})},
			},
			expected: []string{
				"cue c1 lighting start out of range",
				"cue c1 lighting slots exceed 512",
				"cue c1 lighting level 0..1",
				"cue c1 lighting universe must be >0",
			},
		},
		{
			name: "lighting defaults leave universe unset",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{lightingCue("c1", nil)},
			},
			expected: []string{"cue c1 lighting universe must be >0"},
		},
		{
			name: "explicit zero start is out of range",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{lightingCue("c1", map[string]any{"start": 0.0, "universe": 2.0})},
			},
			expected: []string{"cue c1 lighting start out of range"},
		},
		{
			name: "negative level",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{lightingCue("c1", map[string]any{"level": -0.1, "universe": 1.0})},
			},
			expected: []string{"cue c1 lighting level 0..1"},
		},
		{
			name: "numeric strings accepted",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{lightingCue("c1", map[string]any{"start": "12", "count": "2", "level": "0.5", "universe": "3"})},
			},
			expected: nil,
		},
		{
			name: "non-lighting cue skips range checks",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{{ID: "c1", BeatID: "b1", Type: "media.play", Args: map[string]any{"start": 9000.0}}},
			},
			expected: nil,
		},
		{
			name: "invalid trigger kind",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{{ID: "c1", BeatID: "b1", Type: "media.play", Trigger: &Trigger{Kind: "random"}}},
			},
			expected: []string{"cue c1 invalid trigger.kind"},
		},
		{
			name: "empty trigger kind",
			story: &Story{
				Beats: []Beat{{ID: "b1"}},
				Cues:  []Cue{{ID: "c1", BeatID: "b1", Type: "media.play", Trigger: &Trigger{}}},
			},
			expected: []string{"cue c1 invalid trigger.kind"},
		},
		{
			name:     "nil story",
			story:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Messages(Validate(tt.story))
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Validate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidate_ErrorFields(t *testing.T) {
	s := &Story{
		Beats: []Beat{{ID: "b1"}},
		Cues:  []Cue{{ID: "c9", BeatID: "ghost", Type: "media.play"}},
	}

	errs := Validate(s)
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	e := errs[0]
	if e.Code != CodeMissingBeat || e.CueID != "c9" || e.BeatID != "ghost" {
		t.Errorf("error = %+v, want missing_beat for c9/ghost", e)
	}
	if e.Error() != e.Message {
		t.Errorf("Error() = %q, want message", e.Error())
	}
}

func TestValidate_OneMissingReferencePerCue(t *testing.T) {
	s := &Story{Beats: []Beat{{ID: "b1"}}}
	for i := range 5 {
		s.Cues = append(s.Cues, Cue{ID: string(rune('a' + i)), BeatID: "missing", Type: "media.play"})
	}

	count := 0
	for _, e := range Validate(s) {
		if e.Code == CodeMissingBeat {
			count++
		}
	}
	if count != 5 {
		t.Errorf("missing reference errors = %d, want 5", count)
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	s := &Story{
		Beats: []Beat{{ID: "b2", Order: 2}, {ID: "b1", Order: 1}},
		Cues: []Cue{
			{ID: "c1", BeatID: "b1", Type: "lighting.level", Args: map[string]any{"level": 0.3}, Priority: intPtr(70)},
		},
	}
	before := cloneForTest(t, s)

	Validate(s)

	if !reflect.DeepEqual(s, before) {
		t.Errorf("Validate mutated the story: got %+v, want %+v", s, before)
	}
}
