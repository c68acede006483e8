package cue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/vixio-core/internal/bridges"
)

// Router handles ad-hoc cue triggers.
//
// For each trigger it broadcasts the payload to preview listeners, runs
// the protocol mappings, then forwards the payload to the cue engine.
// Preview and engine delivery never depend on the mappings succeeding.
type Router struct {
	osc      OSCSender
	sacn     SACNSender
	preview  Previewer
	upstream Upstream
	queue    *Queue
	metrics  Metrics
	universe int
	logger   Logger
}

// RouterDeps holds the Router's collaborators. Any of them may be nil.
type RouterDeps struct {
	OSC      OSCSender
	SACN     SACNSender
	Preview  Previewer
	Upstream Upstream
	Queue    *Queue
	Metrics  Metrics

	// Universe is the fallback sACN universe for lighting.level.
	Universe int
	Logger   Logger
}

// NewRouter creates a router.
func NewRouter(deps RouterDeps) *Router {
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Router{
		osc:      deps.OSC,
		sacn:     deps.SACN,
		preview:  deps.Preview,
		upstream: deps.Upstream,
		queue:    deps.Queue,
		metrics:  deps.Metrics,
		universe: deps.Universe,
		logger:   logger,
	}
}

// Mapping records what the protocol mappings did for one trigger.
type Mapping struct {
	OSC  *bridges.Result `json:"osc,omitempty"`
	SACN *bridges.Result `json:"sacn,omitempty"`
}

// Trigger previews, maps and forwards payload. The returned Reply is the
// upstream engine's response or the local queue's acknowledgement.
// Errors wrap ErrUpstream, ErrQueueFull or ErrNoEngine.
func (r *Router) Trigger(ctx context.Context, payload map[string]any) (*Reply, Mapping, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	r.Preview(payload)
	mapping := r.Map(ctx, payload)

	reply, err := r.forward(ctx, payload)
	return reply, mapping, err
}

// Preview sends payload to every preview listener, with type "cue" unless
// the payload carries its own type.
func (r *Router) Preview(payload map[string]any) {
	if r.preview == nil {
		return
	}
	msg := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		msg[k] = v
	}
	if _, ok := msg["type"]; !ok {
		msg["type"] = "cue"
	}
	r.preview.Preview(msg)
}

// Map applies the fixed protocol mappings to payload. Failures, including
// panics from malformed payloads, are logged and never returned.
func (r *Router) Map(ctx context.Context, payload map[string]any) (m Mapping) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("cue mapping error", "error", fmt.Errorf("%v", rec))
		}
	}()

	id, _ := payload["id"].(string)
	protocol, _ := payload["protocol"].(string)

	if protocol == ProtocolOSC && r.osc != nil {
		if address, args, opts, ok := OSCMessage(payload); ok {
			start := time.Now()
			res := r.osc.Send(ctx, address, args, opts)
			r.record(id, "osc", res, start)
			m.OSC = &res
		}
	}

	if id == ActionLightingLevel && r.sacn != nil {
		args, _ := payload["args"].(map[string]any)
		levels, opts := LightingFrame(args, r.universe)
		start := time.Now()
		res := r.sacn.Send(ctx, levels, opts)
		r.record(id, "sacn", res, start)
		m.SACN = &res
	}
	return m
}

func (r *Router) record(id, adapter string, res bridges.Result, start time.Time) {
	if res.Status == bridges.StatusFailed {
		r.logger.Warn("cue mapping send failed", "id", id, "adapter", adapter, "error", res.Err)
	}
	if r.metrics != nil {
		via := res.Via
		if via == "" {
			via = adapter
		}
		r.metrics.WriteCueDispatch(id, "trigger", via, string(res.Status), time.Since(start))
	}
}

func (r *Router) forward(ctx context.Context, payload map[string]any) (*Reply, error) {
	if r.upstream != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding trigger: %w", err)
		}
		reply, err := r.upstream.Post(ctx, "/cue/trigger", body)
		if err != nil {
			r.logger.Error("upstream cue engine failed", "error", err)
			return nil, err
		}
		return reply, nil
	}

	if r.queue != nil {
		priority, size, err := r.queue.Push(payload)
		if err != nil {
			return nil, err
		}
		body, _ := json.Marshal(map[string]any{"status": "queued", "priority": priority, "queueSize": size})
		return &Reply{Status: http.StatusOK, ContentType: "application/json", Body: body}, nil
	}

	return nil, ErrNoEngine
}

// Playhead forwards a playhead sync to the upstream engine, or echoes it
// back as {received, status} when there is none.
func (r *Router) Playhead(ctx context.Context, payload map[string]any) (*Reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding playhead: %w", err)
	}
	if r.upstream != nil {
		return r.upstream.Post(ctx, "/playhead", body)
	}
	echo, _ := json.Marshal(map[string]any{"received": json.RawMessage(body), "status": "ok"})
	return &Reply{Status: http.StatusOK, ContentType: "application/json", Body: echo}, nil
}

// Queue returns the local queue, or nil when triggers go upstream.
func (r *Router) Queue() *Queue {
	return r.queue
}
