package story

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func cloneForTest(t *testing.T, s *Story) *Story {
	t.Helper()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Story
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Idea.Notes == nil {
		out.Idea.Notes = nil
	}
	return &out
}

func TestDefault(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"idea":{"text":"","tags":[],"notes":[]},"characters":[],"beats":[],"cues":[],"meta":{"version":1}}`
	if string(data) != want {
		t.Errorf("Default() = %s, want %s", data, want)
	}
}

func TestDecode(t *testing.T) {
	doc := `{
		"idea": {"text": "haunted library", "tags": ["immersive"], "notes": "bring fog"},
		"beats": [{"id": "b1", "title": "Arrival", "order": 1, "zone": "foyer", "tHint": 4.5}],
		"cues": [{"id": "c1", "beatId": "b1", "type": "lighting.fade",
		          "args": {"start": 1, "count": 2, "level": 0.8, "universe": 1},
		          "priority": 80, "trigger": {"kind": "manual"}}]
	}`

	s, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !reflect.DeepEqual(s.Idea.Notes, Notes{"bring fog"}) {
		t.Errorf("Notes = %q, want [bring fog]", s.Idea.Notes)
	}
	if s.Characters == nil || len(s.Characters) != 0 {
		t.Errorf("Characters = %v, want empty list", s.Characters)
	}
	if s.Meta.Version != 1 {
		t.Errorf("Meta.Version = %d, want 1", s.Meta.Version)
	}
	b := s.Beats[0]
	if b.TimeHint == nil || *b.TimeHint != 4.5 || b.Zone != "foyer" {
		t.Errorf("beat = %+v, want tHint 4.5 in foyer", b)
	}
	c := s.Cues[0]
	if c.EffectivePriority() != 80 {
		t.Errorf("EffectivePriority() = %d, want 80", c.EffectivePriority())
	}
	if c.Trigger == nil || c.Trigger.Kind != TriggerManual {
		t.Errorf("Trigger = %+v, want manual", c.Trigger)
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`{"beats": "not a list"}`))
	if !errors.Is(err, ErrInvalidStory) {
		t.Errorf("Decode() error = %v, want ErrInvalidStory", err)
	}
}

func TestNotes_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Notes
		wantErr bool
	}{
		{name: "string", input: `"one"`, want: Notes{"one"}},
		{name: "blank string", input: `"  "`, want: Notes{}},
		{name: "list", input: `["a","b"]`, want: Notes{"a", "b"}},
		{name: "null", input: `null`, want: Notes{}},
		{name: "number", input: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Notes
			err := json.Unmarshal([]byte(tt.input), &n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(n, tt.want) {
				t.Errorf("Notes = %q, want %q", n, tt.want)
			}
		})
	}
}

func TestCue_Helpers(t *testing.T) {
	c := Cue{Type: "lighting.level"}
	if c.EffectivePriority() != DefaultPriority {
		t.Errorf("EffectivePriority() = %d, want %d", c.EffectivePriority(), DefaultPriority)
	}
	if !c.IsLighting() {
		t.Error("IsLighting() = false for lighting.level")
	}
	if (Cue{Type: "media.play"}).IsLighting() {
		t.Error("IsLighting() = true for media.play")
	}
	zero := 0
	if (Cue{Priority: &zero}).EffectivePriority() != 0 {
		t.Error("explicit zero priority replaced by default")
	}
}

func TestDecode_NotesRoundTripAsList(t *testing.T) {
	s, err := Decode([]byte(`{"idea":{"notes":"x"}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	data, _ := json.Marshal(s.Idea)
	if !strings.Contains(string(data), `"notes":["x"]`) {
		t.Errorf("idea = %s, want notes as list", data)
	}
}
