package cue

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/vixio-core/internal/bridges"
	"github.com/nerrad567/vixio-core/internal/bridges/osc"
	"github.com/nerrad567/vixio-core/internal/bridges/sacn"
)

// ─── Mock Dependencies ──────────────────────────────────────────

type oscCall struct {
	address string
	args    []any
	opts    osc.Options
}

type mockOSC struct {
	mu     sync.Mutex
	calls  []oscCall
	result bridges.Result
}

func (m *mockOSC) Send(_ context.Context, address string, args []any, opts osc.Options) bridges.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, oscCall{address: address, args: args, opts: opts})
	if m.result.Status == "" {
		return bridges.Delivered(bridges.ViaUDP)
	}
	return m.result
}

type sacnCall struct {
	levels []float64
	opts   sacn.Options
}

type mockSACN struct {
	mu     sync.Mutex
	calls  []sacnCall
	result bridges.Result
	panics bool
}

func (m *mockSACN) Send(_ context.Context, levels []float64, opts sacn.Options) bridges.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panics {
		panic("sacn exploded")
	}
	m.calls = append(m.calls, sacnCall{levels: levels, opts: opts})
	if m.result.Status == "" {
		return bridges.Delivered(bridges.ViaDirect)
	}
	return m.result
}

type mockPreview struct {
	mu       sync.Mutex
	messages []any
}

func (m *mockPreview) Preview(msg any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

type mockUpstream struct {
	mu    sync.Mutex
	paths []string
	// bodies holds the raw request bodies in call order.
	bodies [][]byte
	reply  *Reply
	err    error
}

func (m *mockUpstream) Post(_ context.Context, path string, body []byte) (*Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	m.bodies = append(m.bodies, body)
	return m.reply, m.err
}

type publishCall struct {
	topic   string
	payload []byte
	qos     byte
}

type mockMQTT struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (m *mockMQTT) Publish(topic string, payload []byte, qos byte, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, publishCall{topic: topic, payload: payload, qos: qos})
	return m.err
}

type dispatchRecord struct {
	cueType, source, via, status string
}

type mockMetrics struct {
	mu      sync.Mutex
	records []dispatchRecord
}

func (m *mockMetrics) WriteCueDispatch(cueType, source, via, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, dispatchRecord{cueType, source, via, status})
}
