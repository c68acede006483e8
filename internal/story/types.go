package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Trigger kinds a cue may declare.
const (
	TriggerManual   = "manual"
	TriggerState    = "state"
	TriggerTimecode = "timecode"
)

// DefaultPriority is the priority of a cue that does not declare one.
const DefaultPriority = 50

// ErrInvalidStory is returned when a document cannot be decoded as a story.
var ErrInvalidStory = errors.New("story: invalid document")

// Story is the root document produced by the editor.
type Story struct {
	Idea       Idea        `json:"idea"`
	Characters []Character `json:"characters"`
	Beats      []Beat      `json:"beats"`
	Cues       []Cue       `json:"cues"`
	Meta       Meta        `json:"meta"`
}

// Idea is the free-form premise of the show.
type Idea struct {
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
	Notes Notes    `json:"notes"`
}

// Notes holds idea notes. Older editors saved a single string, newer ones
// a list; both decode into a list.
type Notes []string

// UnmarshalJSON accepts a string, a list of strings, or null.
func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = Notes{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*n = Notes{}
		} else {
			*n = Notes{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return fmt.Errorf("notes must be a string or list of strings: %w", err)
	}
	*n = list
	return nil
}

// Character is a person or role in the story.
type Character struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Beat is a narrative unit that anchors cues to a point in time.
type Beat struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Order float64 `json:"order"`
	Zone  string  `json:"zone,omitempty"`

	// TimeHint is an explicit offset in seconds.
	TimeHint *float64 `json:"tHint,omitempty"`
}

// Cue is a dispatchable action bound to a beat.
type Cue struct {
	ID     string `json:"id"`
	BeatID string `json:"beatId,omitempty"`

	// Type is a namespaced action such as lighting.fade, osc.send,
	// media.play or previz.marker.show.
	Type     string         `json:"type"`
	Args     map[string]any `json:"args,omitempty"`
	Priority *int           `json:"priority,omitempty"`
	Trigger  *Trigger       `json:"trigger,omitempty"`
}

// EffectivePriority returns the cue's priority or DefaultPriority.
func (c Cue) EffectivePriority() int {
	if c.Priority == nil {
		return DefaultPriority
	}
	return *c.Priority
}

// IsLighting reports whether the cue drives DMX lighting.
func (c Cue) IsLighting() bool {
	return strings.HasPrefix(c.Type, "lighting")
}

// Trigger describes when a cue fires.
type Trigger struct {
	Kind string `json:"kind"`
	When string `json:"when,omitempty"`
	TC   string `json:"tc,omitempty"`
}

// Meta carries document metadata.
type Meta struct {
	Version int `json:"version"`
}

// Default returns the empty story served before anything was saved.
func Default() *Story {
	s := &Story{Meta: Meta{Version: 1}}
	s.Normalize()
	return s
}

// Decode parses a story document. Missing collections decode as empty
// lists and a missing version as 1.
func Decode(data []byte) (*Story, error) {
	var s Story
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStory, err)
	}
	s.Normalize()
	return &s, nil
}

// Normalize replaces nil collections with empty ones so the document
// encodes with [] rather than null.
func (s *Story) Normalize() {
	if s.Idea.Tags == nil {
		s.Idea.Tags = []string{}
	}
	if s.Idea.Notes == nil {
		s.Idea.Notes = Notes{}
	}
	if s.Characters == nil {
		s.Characters = []Character{}
	}
	if s.Beats == nil {
		s.Beats = []Beat{}
	}
	if s.Cues == nil {
		s.Cues = []Cue{}
	}
	if s.Meta.Version == 0 {
		s.Meta.Version = 1
	}
}
