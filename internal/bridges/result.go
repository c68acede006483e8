package bridges

// Status is the outcome class of an adapter send.
type Status string

// Send outcomes.
const (
	StatusDelivered Status = "delivered"
	StatusDisabled  Status = "disabled"
	StatusFailed    Status = "failed"
)

// Delivery paths reported in Result.Via.
const (
	ViaUDP    = "udp"
	ViaDirect = "direct"
	ViaBridge = "bridge"
	ViaMQTT   = "mqtt"
)

// Result describes what happened to one adapter send.
type Result struct {
	Status Status `json:"status"`

	// Via names the path that delivered the frame. Empty unless delivered.
	Via string `json:"via,omitempty"`

	// Err is the transport failure. Nil unless Status is StatusFailed.
	Err error `json:"-"`
}

// Delivered returns a successful result for the given path.
func Delivered(via string) Result {
	return Result{Status: StatusDelivered, Via: via}
}

// Disabled returns the result of a send to a switched-off adapter.
func Disabled() Result {
	return Result{Status: StatusDisabled}
}

// Failed returns a transport failure result.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// OK reports whether the frame was delivered.
func (r Result) OK() bool {
	return r.Status == StatusDelivered
}

// Logger is the logging contract shared by the adapters.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
