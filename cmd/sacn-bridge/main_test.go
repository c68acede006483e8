package main

import (
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Listen != ":5599" {
		t.Errorf("Listen = %q, want :5599", cfg.Listen)
	}
	if cfg.Priority != 100 {
		t.Errorf("Priority = %d, want 100", cfg.Priority)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SACN_BRIDGE_LISTEN", "127.0.0.1:7000")
	t.Setenv("SACN_TARGET_HOST", "10.0.0.9")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:7000" || cfg.TargetHost != "10.0.0.9" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_BadPriority(t *testing.T) {
	t.Setenv("SACN_PRIORITY", "300")
	_, err := loadConfig()
	if err == nil || !strings.Contains(err.Error(), "SACN_PRIORITY") {
		t.Errorf("loadConfig() error = %v, want SACN_PRIORITY", err)
	}
}
