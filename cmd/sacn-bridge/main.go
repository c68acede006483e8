// sacn-bridge accepts DMX levels over HTTP and sends them as E1.31
// (sACN) frames. Vixio Core falls back to it when direct sends from the
// core host fail or are disabled.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nerrad567/vixio-core/internal/bridges/sacn"
	"github.com/nerrad567/vixio-core/internal/infrastructure/config"
	"github.com/nerrad567/vixio-core/internal/infrastructure/logging"
)

var version = "dev"

// bridgeConfig is read from the environment only.
type bridgeConfig struct {
	Listen     string `env:"SACN_BRIDGE_LISTEN" envDefault:":5599"`
	TargetHost string `env:"SACN_TARGET_HOST"`
	SourceName string `env:"SACN_SOURCE_NAME" envDefault:"vixio-bridge"`
	Priority   int    `env:"SACN_PRIORITY" envDefault:"100"`
	LogLevel   string `env:"VIXIO_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"VIXIO_LOG_FORMAT" envDefault:"json"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (bridgeConfig, error) {
	var cfg bridgeConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Priority < 0 || cfg.Priority > 200 {
		return cfg, fmt.Errorf("SACN_PRIORITY must be between 0 and 200")
	}
	return cfg, nil
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.New(config.LoggingConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: "stdout"}, version).
		With("component", "sacn-bridge")

	sender := sacn.New(sacn.Config{
		Enabled:    true,
		Direct:     true,
		Universe:   1,
		TargetHost: cfg.TargetHost,
		SourceName: cfg.SourceName,
		Priority:   cfg.Priority,
	}, log)
	defer sender.Close() //nolint:errcheck // shutdown

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           sacn.NewServer(sender, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("sacn bridge listening", "address", cfg.Listen, "target_host", cfg.TargetHost)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("sacn bridge shutting down")
	return srv.Shutdown(shutdownCtx)
}
