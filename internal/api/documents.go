package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/nerrad567/vixio-core/internal/publish"
	"github.com/nerrad567/vixio-core/internal/story"
	"github.com/nerrad567/vixio-core/internal/timeline"
)

// readBody reads the request body, writing a 400 on failure.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, Error{
				Status:  http.StatusRequestEntityTooLarge,
				Code:    ErrCodeBadRequest,
				Message: "request body too large",
				Legacy:  "body_too_large",
			})
			return nil, false
		}
		writeBadRequest(w, "invalid_body", "failed to read request body")
		return nil, false
	}
	return body, true
}

// handleGetStory returns the saved story, or the empty default.
func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.GetStory(r.Context())
	if err != nil {
		s.logger.Error("failed to load story", "error", err)
		writeInternalError(w, "failed to load story")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleSaveStory validates and stores a story document.
func (s *Server) handleSaveStory(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	st, err := story.Decode(body)
	if err != nil {
		writeBadRequest(w, "invalid_json", err.Error())
		return
	}

	if err := s.publisher.SaveStory(r.Context(), st); err != nil {
		var vErr *publish.ValidationFailedError
		if errors.As(err, &vErr) {
			writeValidationFailed(w, vErr.Errors)
			return
		}
		s.logger.Error("failed to save story", "error", err)
		writeInternalError(w, "failed to save story")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// handlePublish compiles the saved story into the live timeline.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	summary, err := s.publisher.Publish(r.Context())
	if err != nil {
		var vErr *publish.ValidationFailedError
		switch {
		case errors.Is(err, publish.ErrNoStory):
			writeNotFound(w, "no_story", "no story has been saved")
		case errors.As(err, &vErr):
			writeValidationFailed(w, vErr.Errors)
		default:
			s.logger.Error("publish failed", "error", err)
			writeInternalError(w, "publish failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"id":       summary.ID,
		"events":   summary.Events,
		"warnings": summary.Warnings,
	})
}

// handleGetTimeline returns the live timeline.
func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := s.store.GetTimeline(r.Context())
	if err != nil {
		s.logger.Error("failed to load timeline", "error", err)
		writeInternalError(w, "failed to load timeline")
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

// handleReplaceTimeline replaces the live timeline wholesale.
func (s *Server) handleReplaceTimeline(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	tl, err := timeline.Decode(body)
	if err != nil {
		writeBadRequest(w, "invalid_json", err.Error())
		return
	}
	if err := s.publisher.ReplaceTimeline(r.Context(), tl); err != nil {
		if errors.Is(err, timeline.ErrInvalidTimeline) {
			writeBadRequest(w, "invalid_timeline", err.Error())
			return
		}
		s.logger.Error("failed to replace timeline", "error", err)
		writeInternalError(w, "failed to replace timeline")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "events": len(tl.Events)})
}

// handleListPublishes returns recent publish history, newest first.
func (s *Server) handleListPublishes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	publishes, err := s.store.ListPublishes(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list publishes", "error", err)
		writeInternalError(w, "failed to list publishes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"publishes": publishes,
		"count":     len(publishes),
	})
}
