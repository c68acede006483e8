package story

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DMX universe geometry.
const (
	SlotCount = 512
	MaxLevel  = 255
)

// Lighting argument defaults applied when a key is absent.
const (
	defaultStart    = 1
	defaultCount    = 1
	defaultLevel    = 0
	defaultUniverse = 0
)

// Lighting is the lighting payload of a cue with defaults applied.
// Level is normalised to 0..1.
type Lighting struct {
	Start    float64
	Count    float64
	Level    float64
	Universe float64

	// Dest is an optional destination host for the frame.
	Dest string
}

// ParseLighting reads start, count, level, universe and dest from cue
// args. Absent or non-numeric values take the defaults start=1, count=1,
// level=0, universe=0; explicit zeros are kept.
func ParseLighting(args map[string]any) Lighting {
	l := Lighting{
		Start:    numberOr(args, "start", defaultStart),
		Count:    numberOr(args, "count", defaultCount),
		Level:    numberOr(args, "level", defaultLevel),
		Universe: numberOr(args, "universe", defaultUniverse),
	}
	if dest, ok := args["dest"].(string); ok {
		l.Dest = strings.TrimSpace(dest)
	}
	return l
}

// LevelByte converts the normalised level into a DMX value, clamping to
// 0..1 first.
func (l Lighting) LevelByte() byte {
	level := math.Max(0, math.Min(1, l.Level))
	return byte(math.Round(level * MaxLevel))
}

// Number returns args[key] as a float64. It accepts Go numeric types,
// json.Number and numeric strings.
func Number(args map[string]any, key string) (float64, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false
	}
	return toFloat(v)
}

func numberOr(args map[string]any, key string, fallback float64) float64 {
	if n, ok := Number(args, key); ok {
		return n
	}
	return fallback
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}
