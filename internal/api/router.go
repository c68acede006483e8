package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/story", s.handleGetStory)
	r.Get("/timeline", s.handleGetTimeline)
	r.Get("/playback", s.handleGetPlayback)
	r.Get("/engine/queue", s.handleEngineQueue)
	r.Get("/publishes", s.handleListPublishes)
	r.Get(s.wsPath(), s.handleWebSocket)

	// Previz clients sync without a token.
	r.Post("/playhead", s.handlePlayhead)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/story", s.handleSaveStory)
		r.Post("/story/publish", s.handlePublish)
		r.Post("/timeline", s.handleReplaceTimeline)
		r.Post("/cue/trigger", s.handleCueTrigger)
		r.Post("/playback/{action}", s.handlePlaybackAction)
	})

	return r
}

func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
