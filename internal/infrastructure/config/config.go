package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Vixio Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Show      ShowConfig      `yaml:"show"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Protocols ProtocolsConfig `yaml:"protocols"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Engine    EngineConfig    `yaml:"engine"`
	Security  SecurityConfig  `yaml:"security"`
}

// ShowConfig identifies the show this instance drives.
type ShowConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains preview WebSocket settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ProtocolsConfig contains output protocol adapter settings.
type ProtocolsConfig struct {
	OSC  OSCConfig  `yaml:"osc"`
	SACN SACNConfig `yaml:"sacn"`
}

// OSCConfig configures the OSC adapter.
// Host and Port are the default destination when a cue names none.
type OSCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// SACNConfig configures the sACN/DMX adapter.
type SACNConfig struct {
	Enabled bool `yaml:"enabled"`

	// Direct sends E1.31 frames from this process. When false, or when a
	// direct send fails, levels go to BridgeURL.
	Direct bool `yaml:"direct"`

	Universe   int    `yaml:"universe"`
	TargetHost string `yaml:"target_host"`
	BridgeURL  string `yaml:"bridge_url"`

	SourceName    string        `yaml:"source_name"`
	Priority      int           `yaml:"priority"`
	BridgeTimeout time.Duration `yaml:"bridge_timeout"`
}

// PlaybackConfig controls the playback scheduler.
type PlaybackConfig struct {
	// MaxDuration is the minimum playable length. A timeline whose last
	// event lies beyond it extends the playable length to that event.
	MaxDuration time.Duration `yaml:"max_duration"`

	TickInterval   time.Duration `yaml:"tick_interval"`
	ReportInterval time.Duration `yaml:"report_interval"`

	// DispatchQueue bounds how many ticks of fired events may wait for
	// dispatch.
	DispatchQueue int `yaml:"dispatch_queue"`

	// ReportURL receives {"seconds": n} position reports when set.
	ReportURL string `yaml:"report_url"`
}

// EngineConfig configures the upstream cue engine collaborator.
type EngineConfig struct {
	UpstreamURL string        `yaml:"upstream_url"`
	Timeout     time.Duration `yaml:"timeout"`

	// LocalQueue queues ad-hoc triggers in-process when no upstream is configured.
	LocalQueue bool `yaml:"local_queue"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	// BearerToken protects mutating endpoints. Empty disables the check.
	BearerToken string `yaml:"bearer_token"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Show: ShowConfig{
			ID:   "show-001",
			Name: "Vixio",
		},
		Database: DatabaseConfig{
			Path:        "./data/vixio.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "vixio-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Protocols: ProtocolsConfig{
			OSC: OSCConfig{
				Host: "127.0.0.1",
				Port: 9000,
			},
			SACN: SACNConfig{
				Universe:      1,
				TargetHost:    "127.0.0.1",
				SourceName:    "vixio",
				Priority:      100,
				BridgeTimeout: 2 * time.Second,
			},
		},
		Playback: PlaybackConfig{
			MaxDuration:    120 * time.Second,
			TickInterval:   20 * time.Millisecond,
			ReportInterval: 100 * time.Millisecond,
			DispatchQueue:  256,
		},
		Engine: EngineConfig{
			Timeout:    5 * time.Second,
			LocalQueue: true,
		},
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Show.ID == "" {
		errs = append(errs, "show.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Protocols.OSC.Port < 1 || c.Protocols.OSC.Port > 65535 {
		errs = append(errs, "protocols.osc.port must be between 1 and 65535")
	}

	sacn := c.Protocols.SACN
	if sacn.Universe < 1 || sacn.Universe > 63999 {
		errs = append(errs, "protocols.sacn.universe must be between 1 and 63999")
	}
	if sacn.Priority < 0 || sacn.Priority > 200 {
		errs = append(errs, "protocols.sacn.priority must be between 0 and 200")
	}
	if sacn.BridgeURL != "" {
		if !isHTTPURL(sacn.BridgeURL) {
			errs = append(errs, "protocols.sacn.bridge_url must be an absolute http(s) URL")
		}
	}

	if c.Playback.MaxDuration <= 0 {
		errs = append(errs, "playback.max_duration must be positive")
	}
	if c.Playback.TickInterval <= 0 {
		errs = append(errs, "playback.tick_interval must be positive")
	}
	if c.Playback.DispatchQueue < 1 {
		errs = append(errs, "playback.dispatch_queue must be at least 1")
	}

	if c.Engine.UpstreamURL != "" {
		if !isHTTPURL(c.Engine.UpstreamURL) {
			errs = append(errs, "engine.upstream_url must be an absolute http(s) URL")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
