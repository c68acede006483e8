package cue

import (
	"math"

	"github.com/nerrad567/vixio-core/internal/bridges/osc"
	"github.com/nerrad567/vixio-core/internal/bridges/sacn"
	"github.com/nerrad567/vixio-core/internal/story"
)

// Reserved action ids.
const (
	ActionLightingLevel = "lighting.level"
	ActionOSCSend       = "osc.send"
	ProtocolOSC         = "osc"
)

// LightingFrame expands lighting args into a full universe: the level
// (0..1, clamped) scaled to 0..255 is written into count slots from start
// (1-based). Slots outside the universe are skipped. The universe comes
// from args, then fallbackUniverse, then 1.
func LightingFrame(args map[string]any, fallbackUniverse int) ([]float64, sacn.Options) {
	l := story.ParseLighting(args)
	value := float64(l.LevelByte())

	levels := make([]float64, sacn.SlotCount)
	from := math.Trunc(l.Start) - 1
	to := from + math.Trunc(l.Count)
	first := int(math.Min(math.Max(from, 0), sacn.SlotCount))
	last := int(math.Min(math.Max(to, 0), sacn.SlotCount))
	for slot := first; slot < last; slot++ {
		levels[slot] = value
	}

	universe := int(l.Universe)
	if universe <= 0 {
		universe = fallbackUniverse
	}
	if universe <= 0 {
		universe = 1
	}
	return levels, sacn.Options{Universe: universe, Host: l.Dest}
}

// OSCMessage pulls an OSC address, argument list and destination out of
// a payload. It reports false when there is no address.
func OSCMessage(m map[string]any) (string, []any, osc.Options, bool) {
	address, _ := m["address"].(string)
	if address == "" {
		return "", nil, osc.Options{}, false
	}

	var args []any
	switch a := m["args"].(type) {
	case []any:
		args = a
	case nil:
	default:
		args = []any{a}
	}

	opts := osc.Options{}
	opts.Host, _ = m["host"].(string)
	if port, ok := story.Number(m, "port"); ok && port > 0 {
		opts.Port = int(port)
	}
	return address, args, opts, true
}
