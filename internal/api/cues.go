package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/vixio-core/internal/cue"
)

// ChannelPlayhead carries playhead positions to preview clients.
const ChannelPlayhead = "playhead"

// decodeObject decodes the body as a JSON object. An empty body is an
// empty object.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body, ok := readBody(w, r)
	if !ok {
		return nil, false
	}
	payload := map[string]any{}
	if len(body) == 0 {
		return payload, true
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeBadRequest(w, "invalid_json", "request body must be a JSON object")
		return nil, false
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, true
}

// writeReply relays an engine reply verbatim.
func writeReply(w http.ResponseWriter, reply *cue.Reply) {
	contentType := reply.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(reply.Status)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(reply.Body)
}

// writeEngineError maps cue engine errors onto HTTP responses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cue.ErrUpstream):
		s.logger.Warn("upstream cue engine failed", "error", err)
		writeError(w, Error{
			Status:  http.StatusBadGateway,
			Code:    ErrCodeUpstream,
			Message: "upstream cue engine failed",
			Legacy:  "upstream_error",
			Detail:  err.Error(),
		})
	case errors.Is(err, cue.ErrQueueFull):
		writeError(w, Error{
			Status:  http.StatusServiceUnavailable,
			Code:    ErrCodeUnavailable,
			Message: "cue queue is full",
			Legacy:  "queue_full",
		})
	case errors.Is(err, cue.ErrNoEngine):
		writeError(w, Error{
			Status:  http.StatusServiceUnavailable,
			Code:    ErrCodeUnavailable,
			Message: "no cue engine configured",
			Legacy:  "no_engine",
		})
	default:
		s.logger.Error("cue engine error", "error", err)
		writeInternalError(w, "cue engine error")
	}
}

// handleCueTrigger previews, maps and forwards an ad-hoc cue.
func (s *Server) handleCueTrigger(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeObject(w, r)
	if !ok {
		return
	}
	reply, _, err := s.router.Trigger(r.Context(), payload)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeReply(w, reply)
}

// handlePlayhead mirrors a playhead sync to preview clients and the
// engine.
func (s *Server) handlePlayhead(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeObject(w, r)
	if !ok {
		return
	}
	s.hub.Broadcast(ChannelPlayhead, payload)

	reply, err := s.router.Playhead(r.Context(), payload)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeReply(w, reply)
}

// handleEngineQueue lists the local cue queue.
func (s *Server) handleEngineQueue(w http.ResponseWriter, _ *http.Request) {
	items := []cue.QueueItem{}
	if q := s.router.Queue(); q != nil {
		items = q.Items()
	}
	writeJSON(w, http.StatusOK, map[string]any{"queue": items})
}
