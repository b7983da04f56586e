package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
	"go.uber.org/zap"
)

type eventRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// HandleEvent accepts one live stream event and queues it for the ingest
// worker. Events are processed in arrival order; a full queue sheds load
// instead of blocking the adapter.
func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	defer r.Body.Close()
	if req.Type == "" {
		respondWithError(w, http.StatusBadRequest, "event type can not be empty")
		return
	}
	evt := model.Event{Type: req.Type, Data: req.Data, Timestamp: time.Now()}
	select {
	case s.deps.Ingest <- evt:
		respondWithJSON(w, http.StatusAccepted, map[string]any{"queued": true})
	default:
		logger.Warn("event queue full, dropping event", zap.String("event", req.Type))
		respondWithError(w, http.StatusTooManyRequests, "event queue full")
	}
}
