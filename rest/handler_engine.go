package rest

import (
	"net/http"
	"strconv"

	"github.com/castflow/castflow/logger"
	"go.uber.org/zap"
)

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.deps.Engine.Stats())
}

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.deps.Engine.History(limitParam(r)))
}

func (s *Server) HandleEventHistory(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.deps.Store.GetEventHistory(limitParam(r)))
}

func (s *Server) HandleCapabilities(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"triggers":  s.deps.Triggers.Names(),
		"operators": s.deps.Operators.Names(),
		"actions":   s.deps.Actions.Names(),
	})
}

func (s *Server) HandleSchedulerReload(w http.ResponseWriter, r *http.Request) {
	if s.deps.Scheduler == nil {
		respondWithError(w, http.StatusServiceUnavailable, "scheduler not running")
		return
	}
	if err := s.deps.Scheduler.Reload(); err != nil {
		logger.Error("error reloading scheduler", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error reloading scheduler")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"timers": s.deps.Scheduler.TimerCount()})
}

// limitParam reads the optional ?limit= query, zero meaning everything.
func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
