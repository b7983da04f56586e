package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/castflow/castflow/engine"
	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/persistence"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/scheduler"
	"github.com/castflow/castflow/store"
	"github.com/castflow/castflow/util"
)

// Dependencies collects everything the admin surface talks to. The event
// endpoint enqueues into the ingest worker instead of calling the engine so
// slow flows never hold an http connection open.
type Dependencies struct {
	Engine    *engine.FlowEngine
	Flows     persistence.FlowDao
	Settings  persistence.SettingDao
	Scheduler *scheduler.Scheduler
	Store     *store.Store
	Triggers  *registry.TriggerRegistry
	Operators *registry.OperatorRegistry
	Actions   *registry.ActionRegistry
	Ingest    chan<- util.Task
}

type Server struct {
	http.Server
	Port int
	deps Dependencies
}

func NewServer(httpPort int, deps Dependencies) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		Port: httpPort,
		deps: deps,
	}

	router := mux.NewRouter()
	router.HandleFunc("/event", s.HandleEvent).Methods(http.MethodPost)

	router.HandleFunc("/flow", s.HandleSaveFlow).Methods(http.MethodPost)
	router.HandleFunc("/flow", s.HandleGetFlows).Methods(http.MethodGet)
	router.HandleFunc("/flow/{id}", s.HandleGetFlow).Methods(http.MethodGet)
	router.HandleFunc("/flow/{id}", s.HandleDeleteFlow).Methods(http.MethodDelete)
	router.HandleFunc("/flow/{id}/run", s.HandleRunFlow).Methods(http.MethodPost)

	router.HandleFunc("/engine/stats", s.HandleStats).Methods(http.MethodGet)
	router.HandleFunc("/engine/history", s.HandleHistory).Methods(http.MethodGet)
	router.HandleFunc("/engine/events", s.HandleEventHistory).Methods(http.MethodGet)
	router.HandleFunc("/engine/capabilities", s.HandleCapabilities).Methods(http.MethodGet)

	router.HandleFunc("/scheduler/reload", s.HandleSchedulerReload).Methods(http.MethodPost)

	router.HandleFunc("/setting/{key}", s.HandleGetSetting).Methods(http.MethodGet)
	router.HandleFunc("/setting/{key}", s.HandlePutSetting).Methods(http.MethodPut)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
