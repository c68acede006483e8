//go:build integration

package mqtt

import (
	"testing"
	"time"
)

// Integration tests need a broker at 127.0.0.1:1883:
//
//	go test -tags=integration ./internal/infrastructure/mqtt/...

func connectIntegration(t *testing.T, clientID string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.Broker.ClientID = clientID

	c, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { c.Close() }) //nolint:errcheck // test cleanup
	return c
}

func TestIntegration_CueRoundtrip(t *testing.T) {
	c := connectIntegration(t, "vixio-int-roundtrip")

	received := make(chan string, 1)
	err := c.Subscribe(Topics{}.AllCues(), 1, func(topic string, payload []byte) error {
		received <- topic + " " + string(payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if c.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", c.SubscriptionCount())
	}

	if err := c.Publish(Topics{}.Cue("media.play"), []byte(`{"id":"media.play"}`), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if got != `vixio/cue/media.play {"id":"media.play"}` {
			t.Errorf("received %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for cue")
	}
}

func TestIntegration_RetainedPlayhead(t *testing.T) {
	pub := connectIntegration(t, "vixio-int-playhead-pub")
	if err := pub.PublishJSON(Topics{}.Playhead(), map[string]float64{"seconds": 12.5}, true); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	sub := connectIntegration(t, "vixio-int-playhead-sub")
	received := make(chan string, 1)
	err := sub.Subscribe(Topics{}.Playhead(), 1, func(_ string, payload []byte) error {
		received <- string(payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case got := <-received:
		if got != `{"seconds":12.5}` {
			t.Errorf("retained playhead = %s", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for retained playhead")
	}
}
