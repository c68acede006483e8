package sacn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nerrad567/vixio-core/internal/bridges"
)

// maxLevelsBody caps a /levels request body.
const maxLevelsBody = 64 << 10

// DirectSender writes a full universe over UDP.
type DirectSender interface {
	SendDirect(ctx context.Context, slots [SlotCount]byte, universe uint16, host string) error
}

// Server is the HTTP side of a sacn-bridge. It accepts levels posted by
// BridgeClient and sends them directly.
type Server struct {
	sender DirectSender
	logger bridges.Logger
}

// NewServer creates a bridge server. A nil logger discards output.
func NewServer(sender DirectSender, logger bridges.Logger) *Server {
	if logger == nil {
		logger = bridges.NopLogger{}
	}
	return &Server{sender: sender, logger: logger}
}

// Routes returns the bridge's HTTP handler.
//
//	POST /levels  {universe, levels, dest}
//	GET  /health
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/levels", s.handleLevels)
	return r
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	var req LevelsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLevelsBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body", "detail": err.Error()})
		return
	}
	if req.Universe < 1 || req.Universe > MaxUniverse {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_universe"})
		return
	}

	slots := Clamp(req.Levels)
	if err := s.sender.SendDirect(r.Context(), slots, uint16(req.Universe), req.Dest); err != nil {
		s.logger.Error("bridge send failed", "universe", req.Universe, "dest", req.Dest, "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, ErrInvalidUniverse) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": "send_failed", "detail": err.Error()})
		return
	}

	s.logger.Debug("bridge levels sent", "universe", req.Universe, "dest", req.Dest)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "universe": req.Universe, "len": len(req.Levels)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
