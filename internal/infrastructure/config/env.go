package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables that override file values.
// Pointer fields stay nil when the variable is unset so only variables
// that are present replace what the file said.
//
// The unprefixed protocol and engine names are the ones existing show
// deployments already export.
type envOverrides struct {
	DatabasePath *string `env:"VIXIO_DATABASE_PATH"`

	APIHost *string `env:"VIXIO_API_HOST"`
	APIPort *int    `env:"VIXIO_API_PORT"`

	MQTTEnabled  *bool   `env:"VIXIO_MQTT_ENABLED"`
	MQTTHost     *string `env:"VIXIO_MQTT_HOST"`
	MQTTUsername *string `env:"VIXIO_MQTT_USERNAME"`
	MQTTPassword *string `env:"VIXIO_MQTT_PASSWORD"`

	InfluxDBToken *string `env:"VIXIO_INFLUXDB_TOKEN"`

	LogLevel *string `env:"VIXIO_LOG_LEVEL"`

	OSCEnabled *bool   `env:"OSC_ENABLED"`
	OSCHost    *string `env:"OSC_HOST"`
	OSCPort    *int    `env:"OSC_PORT"`

	SACNEnabled    *bool   `env:"SACN_ENABLED"`
	SACNDirect     *bool   `env:"SACN_DIRECT"`
	SACNUniverse   *int    `env:"SACN_UNIVERSE"`
	SACNTargetHost *string `env:"SACN_TARGET_HOST"`
	SACNBridgeURL  *string `env:"SACN_BRIDGE_URL"`

	UpstreamURL *string `env:"UPSTREAM_ENGINE_URL"`
	BearerToken *string `env:"BEARER_TOKEN"`
}

// applyEnvOverrides parses the environment and copies every set variable
// onto cfg.
func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&cfg.Database.Path, o.DatabasePath)

	setString(&cfg.API.Host, o.APIHost)
	setInt(&cfg.API.Port, o.APIPort)

	setBool(&cfg.MQTT.Enabled, o.MQTTEnabled)
	setString(&cfg.MQTT.Broker.Host, o.MQTTHost)
	setString(&cfg.MQTT.Auth.Username, o.MQTTUsername)
	setString(&cfg.MQTT.Auth.Password, o.MQTTPassword)

	setString(&cfg.InfluxDB.Token, o.InfluxDBToken)
	setString(&cfg.Logging.Level, o.LogLevel)

	setBool(&cfg.Protocols.OSC.Enabled, o.OSCEnabled)
	setString(&cfg.Protocols.OSC.Host, o.OSCHost)
	setInt(&cfg.Protocols.OSC.Port, o.OSCPort)

	setBool(&cfg.Protocols.SACN.Enabled, o.SACNEnabled)
	setBool(&cfg.Protocols.SACN.Direct, o.SACNDirect)
	setInt(&cfg.Protocols.SACN.Universe, o.SACNUniverse)
	setString(&cfg.Protocols.SACN.TargetHost, o.SACNTargetHost)
	setString(&cfg.Protocols.SACN.BridgeURL, o.SACNBridgeURL)

	setString(&cfg.Engine.UpstreamURL, o.UpstreamURL)
	setString(&cfg.Security.BearerToken, o.BearerToken)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
