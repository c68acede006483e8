package osc

import (
	"context"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	goosc "github.com/hypebeast/go-osc/osc"

	"github.com/nerrad567/vixio-core/internal/bridges"
)

// defaultWriteTimeout bounds a single datagram write.
const defaultWriteTimeout = 2 * time.Second

// Config configures the adapter.
type Config struct {
	Enabled bool

	// Host and Port are used when a send names no destination.
	Host string
	Port int
}

// Options selects the destination of one send. Zero fields fall back to
// the configured defaults.
type Options struct {
	Host string
	Port int
}

// Adapter sends OSC messages through a single cached UDP handle.
//
// All methods are safe for concurrent use.
type Adapter struct {
	cfg    Config
	logger bridges.Logger

	mu   sync.Mutex
	conn net.Conn
	key  string // host:port of conn
}

// New creates an adapter. A nil logger discards output.
func New(cfg Config, logger bridges.Logger) *Adapter {
	if logger == nil {
		logger = bridges.NopLogger{}
	}
	return &Adapter{cfg: cfg, logger: logger}
}

// Enabled reports whether sends are attempted.
func (a *Adapter) Enabled() bool {
	return a.cfg.Enabled
}

// Send encodes address and args as an OSC message and writes it to the
// destination. Transport problems are reported in the Result, never
// returned as errors.
func (a *Adapter) Send(ctx context.Context, address string, args []any, opts Options) bridges.Result {
	if !a.cfg.Enabled {
		return bridges.Disabled()
	}
	if !strings.HasPrefix(address, "/") {
		return bridges.Failed(ErrInvalidAddress)
	}

	host, port := opts.Host, opts.Port
	if host == "" {
		host = a.cfg.Host
	}
	if port == 0 {
		port = a.cfg.Port
	}
	if host == "" || port <= 0 {
		return bridges.Failed(ErrNoDestination)
	}

	data, err := Encode(address, args)
	if err != nil {
		return bridges.Failed(fmt.Errorf("%w: %w", ErrSendFailed, err))
	}

	if err := a.write(ctx, net.JoinHostPort(host, strconv.Itoa(port)), data); err != nil {
		a.logger.Warn("osc send failed", "address", address, "host", host, "port", port, "error", err)
		return bridges.Failed(fmt.Errorf("%w: %w", ErrSendFailed, err))
	}

	a.logger.Debug("osc sent", "address", address, "host", host, "port", port, "args", len(args))
	return bridges.Delivered(bridges.ViaUDP)
}

// write sends data on the cached handle, replacing it first when the
// destination changed. A failed write drops the handle so the next send
// redials.
func (a *Adapter) write(ctx context.Context, key string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil && a.key != key {
		a.conn.Close()
		a.conn, a.key = nil, ""
	}

	if a.conn == nil {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "udp", key)
		if err != nil {
			return err
		}
		a.conn, a.key = conn, key
	}

	deadline := time.Now().Add(defaultWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = a.conn.SetWriteDeadline(deadline)

	if _, err := a.conn.Write(data); err != nil {
		a.conn.Close()
		a.conn, a.key = nil, ""
		return err
	}
	return nil
}

// Destination returns the host:port of the cached handle, or "" when none is open.
func (a *Adapter) Destination() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.key
}

// Close releases the cached handle. The adapter redials on the next send.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn, a.key = nil, ""
	return err
}

// Encode builds the binary OSC message for address and args.
func Encode(address string, args []any) ([]byte, error) {
	converted := make([]any, len(args))
	for i, arg := range args {
		converted[i] = normalizeArg(arg)
	}
	return goosc.NewMessage(address, converted...).MarshalBinary()
}

// normalizeArg maps decoded JSON values onto OSC argument types.
func normalizeArg(v any) any {
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x)
		}
		return float32(x)
	case float32:
		return x
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x)
		}
		return int64(x)
	case int32, int64, string, bool, []byte, nil:
		return x
	default:
		return fmt.Sprint(x)
	}
}
