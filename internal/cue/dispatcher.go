package cue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nerrad567/vixio-core/internal/bridges"
	"github.com/nerrad567/vixio-core/internal/timeline"
)

// Dispatcher delivers events fired by the playback scheduler. It
// implements playback.Dispatcher.
type Dispatcher struct {
	osc      OSCSender
	sacn     SACNSender
	mqtt     MQTTClient
	preview  Previewer
	metrics  Metrics
	universe int
	qos      byte
	logger   Logger
}

// DispatcherDeps holds the Dispatcher's collaborators. Any of them may be nil.
type DispatcherDeps struct {
	OSC     OSCSender
	SACN    SACNSender
	MQTT    MQTTClient
	Preview Previewer
	Metrics Metrics

	// Universe is the fallback sACN universe for lighting events.
	Universe int
	QoS      byte
	Logger   Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Dispatcher{
		osc:      deps.OSC,
		sacn:     deps.SACN,
		mqtt:     deps.MQTT,
		preview:  deps.Preview,
		metrics:  deps.Metrics,
		universe: deps.Universe,
		qos:      deps.QoS,
		logger:   logger,
	}
}

// firedCue is the preview and MQTT representation of a fired event.
type firedCue struct {
	Type     string         `json:"type,omitempty"`
	ID       string         `json:"id"`
	Args     map[string]any `json:"args"`
	T        float64        `json:"t"`
	Priority int            `json:"priority"`
	Source   string         `json:"source"`
}

// Dispatch previews ev and routes it to its output:
//
//	lighting.*                 → sACN (level expansion)
//	osc.send or protocol "osc" → OSC
//	anything else              → MQTT vixio/cue/<type>
func (d *Dispatcher) Dispatch(ctx context.Context, ev timeline.Event) {
	id := ev.Payload.ID
	args := ev.Payload.Args
	if args == nil {
		args = map[string]any{}
	}

	fired := firedCue{ID: id, Args: args, T: ev.T, Priority: ev.Meta.Priority, Source: "timeline"}
	if d.preview != nil {
		msg := fired
		msg.Type = "cue"
		d.preview.Preview(msg)
	}

	start := time.Now()
	var (
		res     bridges.Result
		adapter string
	)
	switch {
	case strings.HasPrefix(id, "lighting"):
		res, adapter = d.sendLighting(ctx, args), "sacn"
	case id == ActionOSCSend || args["protocol"] == ProtocolOSC:
		res, adapter = d.sendOSC(ctx, args), ProtocolOSC
	default:
		res, adapter = d.publish(id, fired), bridges.ViaMQTT
	}

	switch res.Status {
	case bridges.StatusFailed:
		d.logger.Warn("cue dispatch failed", "id", id, "t", ev.T, "error", res.Err)
	case bridges.StatusDelivered:
		d.logger.Debug("cue dispatched", "id", id, "t", ev.T, "via", res.Via)
	}
	if d.metrics != nil {
		via := res.Via
		if via == "" {
			via = adapter
		}
		d.metrics.WriteCueDispatch(id, "timeline", via, string(res.Status), time.Since(start))
	}
}

func (d *Dispatcher) sendLighting(ctx context.Context, args map[string]any) bridges.Result {
	if d.sacn == nil {
		return bridges.Disabled()
	}
	levels, opts := LightingFrame(args, d.universe)
	return d.sacn.Send(ctx, levels, opts)
}

func (d *Dispatcher) sendOSC(ctx context.Context, args map[string]any) bridges.Result {
	if d.osc == nil {
		return bridges.Disabled()
	}
	address, oscArgs, opts, ok := OSCMessage(args)
	if !ok {
		return bridges.Failed(errMissingAddress)
	}
	return d.osc.Send(ctx, address, oscArgs, opts)
}

func (d *Dispatcher) publish(id string, fired firedCue) bridges.Result {
	if d.mqtt == nil {
		return bridges.Disabled()
	}
	payload, err := json.Marshal(fired)
	if err != nil {
		return bridges.Failed(err)
	}
	if err := d.mqtt.Publish(TopicPrefix+id, payload, d.qos, false); err != nil {
		return bridges.Failed(err)
	}
	return bridges.Delivered(bridges.ViaMQTT)
}
