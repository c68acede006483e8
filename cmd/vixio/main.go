// Vixio Core - show control for story-driven installations
//
// This is the main entry point for the Vixio Core service. It serves the
// story editor API, compiles and stores timelines, plays them back and
// drives lighting (sACN), OSC devices, MQTT-connected media players and
// previz clients.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/vixio-core/migrations"

	"github.com/nerrad567/vixio-core/internal/api"
	"github.com/nerrad567/vixio-core/internal/bridges/osc"
	"github.com/nerrad567/vixio-core/internal/bridges/sacn"
	"github.com/nerrad567/vixio-core/internal/cue"
	"github.com/nerrad567/vixio-core/internal/infrastructure/config"
	"github.com/nerrad567/vixio-core/internal/infrastructure/database"
	"github.com/nerrad567/vixio-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/vixio-core/internal/infrastructure/logging"
	"github.com/nerrad567/vixio-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/vixio-core/internal/playback"
	"github.com/nerrad567/vixio-core/internal/publish"
	"github.com/nerrad567/vixio-core/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup wiring reads top to bottom
	log := logging.Default()
	log.Info("starting Vixio Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version).With("show", cfg.Show.ID)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Database
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	repo := store.NewSQLiteRepository(db.DB)

	// MQTT (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB, cfg.Show.ID)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Protocol adapters
	oscAdapter := osc.New(osc.Config{
		Enabled: cfg.Protocols.OSC.Enabled,
		Host:    cfg.Protocols.OSC.Host,
		Port:    cfg.Protocols.OSC.Port,
	}, log.With("adapter", "osc"))
	defer oscAdapter.Close() //nolint:errcheck // shutdown

	sacnAdapter := sacn.New(sacn.Config{
		Enabled:       cfg.Protocols.SACN.Enabled,
		Direct:        cfg.Protocols.SACN.Direct,
		Universe:      cfg.Protocols.SACN.Universe,
		TargetHost:    cfg.Protocols.SACN.TargetHost,
		BridgeURL:     cfg.Protocols.SACN.BridgeURL,
		BridgeTimeout: cfg.Protocols.SACN.BridgeTimeout,
		SourceName:    cfg.Protocols.SACN.SourceName,
		Priority:      cfg.Protocols.SACN.Priority,
	}, log.With("adapter", "sacn"))
	defer sacnAdapter.Close() //nolint:errcheck // shutdown
	log.Info("protocol adapters ready",
		"osc", oscAdapter.Enabled(),
		"osc_destination", oscAdapter.Destination(),
		"sacn", sacnAdapter.Enabled(),
		"sacn_direct", cfg.Protocols.SACN.Direct,
		"sacn_universe", cfg.Protocols.SACN.Universe,
	)

	hub := api.NewHub(cfg.WebSocket, log)
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go hub.Run(hubCtx)

	// Timeline dispatch
	dispatcherDeps := cue.DispatcherDeps{
		OSC:      oscAdapter,
		SACN:     sacnAdapter,
		Preview:  hub,
		Universe: cfg.Protocols.SACN.Universe,
		QoS:      byte(cfg.MQTT.QoS), //nolint:gosec // validated 0..2
		Logger:   log.With("component", "dispatcher"),
	}
	if mqttClient != nil {
		dispatcherDeps.MQTT = mqttClient
	}
	if influxClient != nil {
		dispatcherDeps.Metrics = influxClient
	}
	dispatcher := cue.NewDispatcher(dispatcherDeps)

	scheduler := playback.NewScheduler(playback.Config{
		MaxDuration:    cfg.Playback.MaxDuration,
		TickInterval:   cfg.Playback.TickInterval,
		ReportInterval: cfg.Playback.ReportInterval,
		QueueSize:      cfg.Playback.DispatchQueue,
	}, dispatcher, log.With("component", "scheduler"), positionReporters(cfg, hub, mqttClient)...)
	defer scheduler.Close()

	scheduler.OnChange(func(st playback.Status) {
		hub.Broadcast(api.ChannelPlayback, st)
		if mqttClient != nil {
			if pubErr := mqttClient.PublishJSON(mqtt.Topics{}.Playback(), st, true); pubErr != nil {
				log.Debug("playback status publish failed", "error", pubErr)
			}
		}
	})
	go scheduler.Run(ctx)

	if mqttClient != nil {
		if subErr := subscribeTransport(mqttClient, scheduler, log); subErr != nil {
			return fmt.Errorf("subscribing to transport commands: %w", subErr)
		}
	}

	// Publishing
	publishDeps := publish.Deps{
		Store:  repo,
		Loader: scheduler,
		Hub:    &timelineFanout{hub: hub, mqtt: mqttClient, log: log},
		Logger: log.With("component", "publish"),
	}
	if influxClient != nil {
		publishDeps.Metrics = influxClient
	}
	publisher := publish.NewService(publishDeps)

	tl, err := publisher.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restoring timeline: %w", err)
	}
	log.Info("timeline restored", "events", len(tl.Events))

	// Ad-hoc cue routing
	router := cue.NewRouter(routerDeps(cfg, oscAdapter, sacnAdapter, hub, influxClient, log))

	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Security:  cfg.Security,
		Logger:    log,
		Store:     repo,
		Publisher: publisher,
		Playback:  scheduler,
		Router:    router,
		Hub:       hub,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	log.Info("Vixio Core stopped")
	return nil
}

// getConfigPath returns VIXIO_CONFIG if set, otherwise the default path.
func getConfigPath() string {
	if path := os.Getenv("VIXIO_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// positionReporters builds the playhead reporters: the preview hub, the
// retained MQTT playhead topic and the optional HTTP sync endpoint.
func positionReporters(cfg *config.Config, hub *api.Hub, mqttClient *mqtt.Client) []playback.PositionReporter {
	reporters := []playback.PositionReporter{
		playback.ReporterFunc(func(_ context.Context, seconds float64) error {
			hub.Broadcast(api.ChannelPlayhead, map[string]float64{"seconds": seconds})
			return nil
		}),
	}
	if mqttClient != nil {
		reporters = append(reporters, playback.ReporterFunc(func(_ context.Context, seconds float64) error {
			return mqttClient.PublishJSON(mqtt.Topics{}.Playhead(), map[string]float64{"seconds": seconds}, true)
		}))
	}
	if cfg.Playback.ReportURL != "" {
		reporters = append(reporters, playback.NewHTTPReporter(cfg.Playback.ReportURL, nil))
	}
	return reporters
}

// routerDeps picks the engine for ad-hoc triggers: the upstream engine
// when configured, else the local queue when enabled.
func routerDeps(cfg *config.Config, oscAdapter *osc.Adapter, sacnAdapter *sacn.Adapter,
	hub *api.Hub, influxClient *influxdb.Client, log *logging.Logger,
) cue.RouterDeps {
	deps := cue.RouterDeps{
		OSC:      oscAdapter,
		SACN:     sacnAdapter,
		Preview:  hub,
		Universe: cfg.Protocols.SACN.Universe,
		Logger:   log.With("component", "cue_router"),
	}
	switch {
	case cfg.Engine.UpstreamURL != "":
		deps.Upstream = cue.NewHTTPUpstream(cfg.Engine.UpstreamURL, cfg.Engine.Timeout)
		log.Info("cue triggers relayed upstream", "url", cfg.Engine.UpstreamURL)
	case cfg.Engine.LocalQueue:
		deps.Queue = cue.NewQueue(cue.DefaultQueueCapacity)
		log.Info("cue triggers queued locally", "capacity", cue.DefaultQueueCapacity)
	default:
		log.Warn("no cue engine configured; ad-hoc triggers will be rejected")
	}
	if influxClient != nil {
		deps.Metrics = influxClient
	}
	return deps
}

// subscribeTransport applies remote transport commands from MQTT.
func subscribeTransport(client *mqtt.Client, scheduler *playback.Scheduler, log *logging.Logger) error {
	topic := mqtt.Topics{}.TransportCommand()
	log.Info("subscribing to transport commands", "topic", topic)
	return client.Subscribe(topic, 1, func(_ string, payload []byte) error {
		cmd, err := playback.ParseCommand(payload)
		if err != nil {
			return err
		}
		st, err := scheduler.Apply(cmd)
		if err != nil {
			return fmt.Errorf("applying %q: %w", cmd.Action, err)
		}
		log.Info("remote transport command", "action", cmd.Action, "state", st.State, "position", st.Position)
		return nil
	})
}

// timelineFanout broadcasts publish events to preview clients and, for
// timelines, announces them on MQTT.
type timelineFanout struct {
	hub  *api.Hub
	mqtt *mqtt.Client
	log  *logging.Logger
}

func (f *timelineFanout) Broadcast(channel string, payload any) {
	f.hub.Broadcast(channel, payload)
	if f.mqtt == nil || channel != publish.ChannelTimeline {
		return
	}
	if err := f.mqtt.PublishJSON(mqtt.Topics{}.Timeline(), payload, true); err != nil {
		f.log.Warn("timeline announce failed", "error", err)
	}
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// Compile-time interface checks.
var (
	_ api.Playback           = (*playback.Scheduler)(nil)
	_ publish.TimelineLoader = (*playback.Scheduler)(nil)
	_ playback.Dispatcher    = (*cue.Dispatcher)(nil)
	_ cue.MQTTClient         = (*mqtt.Client)(nil)
	_ cue.Metrics            = (*influxdb.Client)(nil)
	_ publish.Metrics        = (*influxdb.Client)(nil)
	_ api.CueRouter          = (*cue.Router)(nil)
)
