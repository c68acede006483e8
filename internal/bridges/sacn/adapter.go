package sacn

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/vixio-core/internal/bridges"
)

const (
	defaultWriteTimeout  = time.Second
	defaultBridgeTimeout = 2 * time.Second
	defaultPriority      = 100
)

// Config configures the adapter.
type Config struct {
	Enabled bool

	// Direct enables UDP sends from this process.
	Direct bool

	// Universe is used when a send names none.
	Universe int

	// TargetHost is the unicast receiver. Empty sends to the universe's
	// multicast group.
	TargetHost string

	// Port overrides the E1.31 port. Zero means Port.
	Port int

	// BridgeURL is the base URL of a sacn-bridge. Empty disables fallback.
	BridgeURL     string
	BridgeTimeout time.Duration

	SourceName string
	Priority   int
}

// Options selects the destination of one send.
type Options struct {
	Universe int
	Host     string
}

// Adapter delivers DMX levels directly over UDP or through a bridge.
//
// UDP handles are cached per destination and live until Close. All
// methods are safe for concurrent use.
type Adapter struct {
	cfg    Config
	cid    [16]byte
	bridge *BridgeClient
	logger bridges.Logger

	mu    sync.Mutex
	conns map[string]net.Conn // keyed by host:port
	seq   map[uint16]byte     // per-universe sequence numbers
}

// New creates an adapter. A nil logger discards output.
func New(cfg Config, logger bridges.Logger) *Adapter {
	if logger == nil {
		logger = bridges.NopLogger{}
	}
	if cfg.Port == 0 {
		cfg.Port = Port
	}
	if cfg.Priority == 0 {
		cfg.Priority = defaultPriority
	}
	if cfg.BridgeTimeout <= 0 {
		cfg.BridgeTimeout = defaultBridgeTimeout
	}

	a := &Adapter{
		cfg:    cfg,
		cid:    uuid.New(),
		logger: logger,
		conns:  make(map[string]net.Conn),
		seq:    make(map[uint16]byte),
	}
	if cfg.BridgeURL != "" {
		a.bridge = NewBridgeClient(cfg.BridgeURL, cfg.BridgeTimeout)
	}
	return a
}

// Enabled reports whether sends are attempted.
func (a *Adapter) Enabled() bool {
	return a.cfg.Enabled
}

// Send clamps levels and delivers them, direct first when configured and
// through the bridge otherwise or when the direct write fails.
func (a *Adapter) Send(ctx context.Context, levels []float64, opts Options) bridges.Result {
	if !a.cfg.Enabled {
		return bridges.Disabled()
	}

	universe := opts.Universe
	if universe == 0 {
		universe = a.cfg.Universe
	}
	if universe < 1 || universe > MaxUniverse {
		return bridges.Failed(ErrInvalidUniverse)
	}
	slots := Clamp(levels)

	var directErr error
	if a.cfg.Direct {
		directErr = a.SendDirect(ctx, slots, uint16(universe), opts.Host)
		if directErr == nil {
			return bridges.Delivered(bridges.ViaDirect)
		}
		a.logger.Warn("sacn direct send failed",
			"universe", universe, "host", opts.Host, "error", directErr,
			"bridge", a.bridge != nil)
	}

	if a.bridge != nil {
		err := a.bridge.Post(ctx, LevelsRequest{
			Universe: universe,
			Levels:   slotsToLevels(slots),
			Dest:     opts.Host,
		})
		if err != nil {
			a.logger.Warn("sacn bridge send failed", "universe", universe, "error", err)
			return bridges.Failed(errors.Join(directErr, err))
		}
		return bridges.Delivered(bridges.ViaBridge)
	}

	if directErr != nil {
		return bridges.Failed(directErr)
	}
	return bridges.Failed(ErrNoRoute)
}

// SendDirect writes one data packet on the UDP handle for host, dialling
// it on first use. An empty host uses the configured target or, failing
// that, the universe's multicast group.
func (a *Adapter) SendDirect(ctx context.Context, slots [SlotCount]byte, universe uint16, host string) error {
	if universe < 1 || universe > MaxUniverse {
		return ErrInvalidUniverse
	}
	if host == "" {
		host = a.cfg.TargetHost
	}
	if host == "" {
		host = MulticastAddr(universe)
	}
	key := net.JoinHostPort(host, strconv.Itoa(a.cfg.Port))

	conn, seq, err := a.handle(ctx, key, universe)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDirectFailed, err)
	}

	frame := Frame{
		CID:        a.cid,
		SourceName: a.cfg.SourceName,
		Priority:   byte(a.cfg.Priority),
		Sequence:   seq,
		Universe:   universe,
		Slots:      slots,
	}

	deadline := time.Now().Add(defaultWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(frame.Encode()); err != nil {
		a.drop(key, conn)
		return fmt.Errorf("%w: %w", ErrDirectFailed, err)
	}
	return nil
}

// handle returns the cached handle for key, dialling it if needed, and
// the next sequence number for universe.
func (a *Adapter) handle(ctx context.Context, key string, universe uint16) (net.Conn, byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	conn, ok := a.conns[key]
	if !ok {
		var d net.Dialer
		c, err := d.DialContext(ctx, "udp", key)
		if err != nil {
			return nil, 0, err
		}
		a.conns[key] = c
		conn = c
	}

	seq := a.seq[universe]
	a.seq[universe] = seq + 1
	return conn, seq, nil
}

// drop closes and forgets a handle after a failed write.
func (a *Adapter) drop(key string, conn net.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conns[key] == conn {
		delete(a.conns, key)
	}
	conn.Close()
}

// OpenHandles returns the number of cached UDP handles.
func (a *Adapter) OpenHandles() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}

// Close releases every cached handle.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for key, conn := range a.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(a.conns, key)
	}
	return errors.Join(errs...)
}

func slotsToLevels(slots [SlotCount]byte) []float64 {
	out := make([]float64, SlotCount)
	for i, v := range slots {
		out[i] = float64(v)
	}
	return out
}
