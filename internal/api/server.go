package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/vixio-core/internal/cue"
	"github.com/nerrad567/vixio-core/internal/infrastructure/config"
	"github.com/nerrad567/vixio-core/internal/infrastructure/logging"
	"github.com/nerrad567/vixio-core/internal/playback"
	"github.com/nerrad567/vixio-core/internal/publish"
	"github.com/nerrad567/vixio-core/internal/story"
	"github.com/nerrad567/vixio-core/internal/store"
	"github.com/nerrad567/vixio-core/internal/timeline"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Publisher saves stories and activates timelines.
type Publisher interface {
	SaveStory(ctx context.Context, s *story.Story) error
	Publish(ctx context.Context) (*publish.Summary, error)
	ReplaceTimeline(ctx context.Context, tl *timeline.Timeline) error
}

// Playback is the transport surface of the scheduler.
type Playback interface {
	Status() playback.Status
	Apply(cmd playback.Command) (playback.Status, error)
}

// CueRouter handles ad-hoc triggers and playhead syncs.
type CueRouter interface {
	Trigger(ctx context.Context, payload map[string]any) (*cue.Reply, cue.Mapping, error)
	Playhead(ctx context.Context, payload map[string]any) (*cue.Reply, error)
	Queue() *cue.Queue
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Security  config.SecurityConfig
	Logger    *logging.Logger
	Store     store.Repository
	Publisher Publisher
	Playback  Playback
	Router    CueRouter

	// Hub is shared with the cue dispatcher and scheduler. When nil the
	// server creates its own.
	Hub     *Hub
	Version string
}

// Server is the HTTP API server for Vixio Core.
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	token     string
	logger    *logging.Logger
	store     store.Repository
	publisher Publisher
	playback  Playback
	router    CueRouter
	version   string
	server    *http.Server
	hub       *Hub
	ownHub    bool
	cancel    context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if deps.Publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if deps.Playback == nil {
		return nil, fmt.Errorf("playback is required")
	}
	if deps.Router == nil {
		return nil, fmt.Errorf("cue router is required")
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		token:     deps.Security.BearerToken,
		logger:    deps.Logger,
		store:     deps.Store,
		publisher: deps.Publisher,
		playback:  deps.Playback,
		router:    deps.Router,
		version:   deps.Version,
		hub:       deps.Hub,
	}
	if s.hub == nil {
		s.hub = NewHub(deps.WS, deps.Logger)
		s.ownHub = true
	}
	return s, nil
}

// Hub returns the preview hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.ownHub {
		go s.hub.Run(srvCtx)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr, "auth", s.token != "")
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds
// for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
