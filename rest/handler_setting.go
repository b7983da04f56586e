package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
)

func (s *Server) HandleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	setting, err := s.deps.Settings.GetSetting(key)
	if err != nil {
		if _, ok := err.(persistence.NotFoundError); ok {
			respondWithError(w, http.StatusNotFound, "setting does not exist")
			return
		}
		logger.Error("error getting setting", zap.String("setting", key), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error getting setting")
		return
	}
	respondWithJSON(w, http.StatusOK, setting)
}

func (s *Server) HandlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	var req struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid setting payload")
		return
	}
	defer r.Body.Close()
	if err := s.deps.Settings.SaveSetting(model.Setting{Key: key, Value: req.Value}); err != nil {
		logger.Error("error saving setting", zap.String("setting", key), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error saving setting")
		return
	}
	respondOK(w, "saved")
}
