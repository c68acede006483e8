package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/vixio-core/internal/infrastructure/config"
)

// ─── Mock Dependencies ──────────────────────────────────────────

type logEntry struct {
	level string
	msg   string
}

type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{"error", msg})
}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{"warn", msg})
}

// testConfig returns a config for a broker that unit tests never dial.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "vixio-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func newOfflineClient() *Client {
	return &Client{cfg: testConfig(), subscriptions: make(map[string]subscription)}
}

// =============================================================================
// Topic Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Cue", topics.Cue("media.play"), "vixio/cue/media.play"},
		{"Playhead", topics.Playhead(), "vixio/playhead"},
		{"Playback", topics.Playback(), "vixio/playback"},
		{"TransportCommand", topics.TransportCommand(), "vixio/transport/command"},
		{"Timeline", topics.Timeline(), "vixio/timeline/published"},
		{"SystemStatus", topics.SystemStatus(), "vixio/system/status"},
		{"AllCues", topics.AllCues(), "vixio/cue/+"},
		{"AllTopics", topics.AllTopics(), "vixio/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

// =============================================================================
// Option Tests
// =============================================================================

func TestBrokerURL(t *testing.T) {
	cfg := testConfig()
	if got := brokerURL(cfg); got != "tcp://127.0.0.1:1883" {
		t.Errorf("brokerURL() = %q", got)
	}
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883
	if got := brokerURL(cfg); got != "ssl://127.0.0.1:8883" {
		t.Errorf("brokerURL() with TLS = %q", got)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "show"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if opts.ClientID != "vixio-test" || opts.Username != "show" || opts.Password != "secret" {
		t.Errorf("identity = %q %q %q", opts.ClientID, opts.Username, opts.Password)
	}
	if !opts.AutoReconnect || opts.MaxReconnectInterval != 5*time.Second {
		t.Errorf("reconnect = %v %v", opts.AutoReconnect, opts.MaxReconnectInterval)
	}
	if !opts.WillEnabled || opts.WillTopic != "vixio/system/status" || !opts.WillRetained {
		t.Fatalf("will = %v %q retained=%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}

	var will StatusMessage
	if err := json.Unmarshal(opts.WillPayload, &will); err != nil {
		t.Fatalf("will payload: %v", err)
	}
	if will.Status != StatusOffline || will.Reason != "unexpected_disconnect" || will.ClientID != "vixio-test" {
		t.Errorf("will = %+v", will)
	}
}

func TestStatusPayload(t *testing.T) {
	now := time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC)

	got := string(statusPayload(StatusOnline, "vixio-core", "", now))
	want := `{"status":"online","client_id":"vixio-core","timestamp":"2026-06-01T19:30:00Z"}`
	if got != want {
		t.Errorf("statusPayload() = %s, want %s", got, want)
	}
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestPublish_Validation(t *testing.T) {
	c := newOfflineClient()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"bad qos", "vixio/cue/x", []byte("x"), 3, ErrInvalidQoS},
		{"too large", "vixio/cue/x", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", "vixio/cue/x", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Publish(tt.topic, tt.payload, tt.qos, false); !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishJSON_EncodeError(t *testing.T) {
	c := newOfflineClient()

	err := c.PublishJSON("vixio/playhead", map[string]any{"bad": make(chan int)}, true)
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("PublishJSON() error = %v, want ErrPublishFailed", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := newOfflineClient()
	noop := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{"empty topic", "", 1, noop, ErrInvalidTopic},
		{"bad qos", "vixio/#", 5, noop, ErrInvalidQoS},
		{"nil handler", "vixio/#", 1, nil, ErrSubscribeFailed},
		{"not connected", "vixio/#", 1, noop, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Subscribe(tt.topic, tt.qos, tt.handler); !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", c.SubscriptionCount())
	}
}

// =============================================================================
// Handler and Lifecycle Tests
// =============================================================================

func TestDeliver_LogsErrorsAndRecoversPanics(t *testing.T) {
	c := newOfflineClient()
	logger := &mockLogger{}
	c.SetLogger(logger)

	c.deliver(func(string, []byte) error { return errors.New("bad command") }, "vixio/transport/command", nil)
	c.deliver(func(string, []byte) error { panic("boom") }, "vixio/transport/command", nil)
	c.deliver(func(string, []byte) error { return nil }, "vixio/transport/command", nil)

	if len(logger.entries) != 2 {
		t.Fatalf("log entries = %+v, want 2", logger.entries)
	}
	if logger.entries[0].level != "warn" || logger.entries[1].level != "error" {
		t.Errorf("log levels = %+v", logger.entries)
	}
	if !strings.Contains(logger.entries[1].msg, "panic") {
		t.Errorf("panic entry = %q", logger.entries[1].msg)
	}
}

func TestDeliver_WithoutLogger(t *testing.T) {
	c := newOfflineClient()
	c.deliver(func(string, []byte) error { panic("boom") }, "t", nil)
}

func TestHandleDisconnect(t *testing.T) {
	c := newOfflineClient()
	c.connected = true

	var got error
	c.SetOnDisconnect(func(err error) { got = err })
	c.handleDisconnect(errors.New("broker gone"))

	if c.IsConnected() {
		t.Error("IsConnected() = true after disconnect")
	}
	if got == nil || got.Error() != "broker gone" {
		t.Errorf("onDisconnect error = %v", got)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := newOfflineClient()
	if err := c.HealthCheck(t.Context()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client = %v", err)
	}
	if err := newOfflineClient().Close(); err != nil {
		t.Errorf("Close() on unconnected client = %v", err)
	}
}

func TestConnect_BrokerRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 1 // nothing listens here

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}
