package cue

import (
	"context"
	"time"

	"github.com/nerrad567/vixio-core/internal/bridges"
	"github.com/nerrad567/vixio-core/internal/bridges/osc"
	"github.com/nerrad567/vixio-core/internal/bridges/sacn"
)

// TopicPrefix is prepended to the cue type for MQTT fan-out.
const TopicPrefix = "vixio/cue/"

// OSCSender is the OSC adapter contract.
type OSCSender interface {
	Send(ctx context.Context, address string, args []any, opts osc.Options) bridges.Result
}

// SACNSender is the sACN adapter contract.
type SACNSender interface {
	Send(ctx context.Context, levels []float64, opts sacn.Options) bridges.Result
}

// Previewer pushes a message to every connected preview listener.
type Previewer interface {
	Preview(msg any)
}

// MQTTClient is the interface for publishing cues to devices.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Metrics records dispatch outcomes.
type Metrics interface {
	WriteCueDispatch(cueType, source, via, status string, latency time.Duration)
}

// Logger defines the logging interface used by this package.
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
