package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/vixio-core/internal/playback"
)

// handleGetPlayback returns the scheduler status.
func (s *Server) handleGetPlayback(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.playback.Status())
}

// handlePlaybackAction runs a transport action. Seek reads {seconds}
// from the body.
func (s *Server) handlePlaybackAction(w http.ResponseWriter, r *http.Request) {
	cmd := playback.Command{Action: chi.URLParam(r, "action")}

	if cmd.Action == playback.ActionSeek {
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		parsed, err := playback.ParseCommand(body)
		if err != nil {
			writeBadRequest(w, "invalid_json", "seek body must be {\"seconds\": n}")
			return
		}
		cmd.Seconds = parsed.Seconds
	}

	status, err := s.playback.Apply(cmd)
	switch {
	case errors.Is(err, playback.ErrUnknownAction):
		writeNotFound(w, "unknown_action", err.Error())
	case errors.Is(err, playback.ErrInvalidPosition):
		writeBadRequest(w, "invalid_position", err.Error())
	case err != nil:
		s.logger.Error("playback action failed", "action", cmd.Action, "error", err)
		writeInternalError(w, "playback action failed")
	default:
		writeJSON(w, http.StatusOK, status)
	}
}
