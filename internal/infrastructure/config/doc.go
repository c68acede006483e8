// Package config handles loading and validating Vixio Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Protocol adapters keep the environment names show crews already use
// (OSC_ENABLED, SACN_BRIDGE_URL, UPSTREAM_ENGINE_URL and friends); the rest
// use the VIXIO_ prefix.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Show.Name)
package config
