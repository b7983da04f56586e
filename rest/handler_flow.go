package rest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/castflow/castflow/engine"
	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
)

// HandleSaveFlow creates or replaces a flow definition. New flows get a
// generated id; every save reloads the scheduler so timer changes take
// effect without a restart.
func (s *Server) HandleSaveFlow(w http.ResponseWriter, r *http.Request) {
	var flow model.Flow
	if err := json.NewDecoder(r.Body).Decode(&flow); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid flow payload")
		return
	}
	defer r.Body.Close()
	if flow.Id == "" {
		flow.Id = uuid.New().String()
	}
	if err := flow.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.deps.Flows.SaveFlow(flow); err != nil {
		logger.Error("error saving flow", zap.String("flow", flow.Name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error saving flow")
		return
	}
	s.reloadScheduler()
	respondWithJSON(w, http.StatusOK, map[string]any{"id": flow.Id})
}

func (s *Server) HandleGetFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := s.deps.Flows.GetFlows()
	if err != nil {
		logger.Error("error listing flows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing flows")
		return
	}
	respondWithJSON(w, http.StatusOK, flows)
}

func (s *Server) HandleGetFlow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	flow, err := s.deps.Flows.GetFlow(id)
	if err != nil {
		if _, ok := err.(persistence.NotFoundError); ok {
			respondWithError(w, http.StatusNotFound, "flow does not exist")
			return
		}
		logger.Error("error getting flow", zap.String("flowId", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error getting flow")
		return
	}
	respondWithJSON(w, http.StatusOK, flow)
}

func (s *Server) HandleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.deps.Flows.DeleteFlow(id); err != nil {
		logger.Error("error deleting flow", zap.String("flowId", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting flow")
		return
	}
	s.reloadScheduler()
	respondOK(w, "deleted")
}

// HandleRunFlow is the manual run now entry point. The body, when present,
// becomes the event payload the flow sees.
func (s *Server) HandleRunFlow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var data map[string]any
	_ = json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()

	err := s.deps.Engine.ExecuteFlowByID(id, data)
	if err != nil {
		switch err.(type) {
		case engine.FlowNotFoundError:
			respondWithError(w, http.StatusNotFound, err.Error())
		case engine.FlowDisabledError:
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			logger.Error("error running flow", zap.String("flowId", id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "error running flow")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"executed": true})
}

func (s *Server) reloadScheduler() {
	if s.deps.Scheduler == nil {
		return
	}
	if err := s.deps.Scheduler.Reload(); err != nil {
		logger.Error("error reloading scheduler", zap.Error(err))
	}
}
