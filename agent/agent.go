package agent

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/castflow/castflow/action"
	"github.com/castflow/castflow/analytics"
	"github.com/castflow/castflow/config"
	"github.com/castflow/castflow/engine"
	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/metrics"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
	"github.com/castflow/castflow/persistence/inmem"
	"github.com/castflow/castflow/persistence/redis"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/rest"
	"github.com/castflow/castflow/scheduler"
	"github.com/castflow/castflow/store"
	"github.com/castflow/castflow/template"
	"github.com/castflow/castflow/util"
)

const DEFAULT_INGEST_CAPACITY = 512

// Agent assembles the full service: storage, engine, scheduler, event
// ingestion worker and the http surface. Components are created in
// dependency order and torn down in reverse.
type Agent struct {
	Config config.Config

	flowDao      persistence.FlowDao
	settingDao   persistence.SettingDao
	store        *store.Store
	triggers     *registry.TriggerRegistry
	operators    *registry.OperatorRegistry
	actions      *registry.ActionRegistry
	engine       *engine.FlowEngine
	executionLog *analytics.ExecutionLog
	scheduler    *scheduler.Scheduler
	eventWorker  *util.Worker
	httpServer   *rest.Server

	shutdown     bool
	shutdowns    chan struct{}
	shutdownLock sync.Mutex
	wg           sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config:    config,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupStorage,
		a.setupStore,
		a.setupRegistries,
		a.setupEngine,
		a.setupAnalytics,
		a.setupMetrics,
		a.setupScheduler,
		a.setupEventWorker,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_REDIS:
		conf := redis.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		}
		a.flowDao = redis.NewRedisFlowDao(conf)
		a.settingDao = redis.NewRedisSettingDao(conf)
	case config.STORAGE_TYPE_INMEM:
		a.flowDao = inmem.NewInMemFlowDao()
		a.settingDao = inmem.NewInMemSettingDao()
	default:
		return fmt.Errorf("unknown storage implementation %s", a.Config.StorageType)
	}
	return nil
}

func (a *Agent) setupStore() error {
	a.store = store.NewStore(a.Config.EngineConfig.EventHistoryCapacity)
	return nil
}

func (a *Agent) setupRegistries() error {
	a.triggers = registry.NewTriggerRegistry()
	a.operators = registry.NewOperatorRegistry()
	a.actions = registry.NewActionRegistry()
	return action.RegisterBuiltins(a.actions)
}

func (a *Agent) setupEngine() error {
	a.engine = engine.NewFlowEngine(a.Config.EngineConfig, a.flowDao, a.settingDao,
		a.store, a.triggers, a.operators, a.actions, template.NewRenderer())
	return nil
}

func (a *Agent) setupAnalytics() error {
	if a.Config.ExecutionLogFile == "" {
		return nil
	}
	collector, err := analytics.NewLogFileDataCollector(a.Config.ExecutionLogFile)
	if err != nil {
		return err
	}
	a.executionLog = analytics.NewExecutionLog(a.engine.Subscribe(), collector, &a.wg)
	return nil
}

func (a *Agent) setupMetrics() error {
	return metrics.Register()
}

func (a *Agent) setupScheduler() error {
	a.scheduler = scheduler.NewScheduler(a.Config.SchedulerConfig, a.flowDao, a.engine, &a.wg)
	return nil
}

func (a *Agent) setupEventWorker() error {
	capacity := a.Config.EngineConfig.IngestCapacity
	if capacity <= 0 {
		capacity = DEFAULT_INGEST_CAPACITY
	}
	handler := func(task util.Task) error {
		event, ok := task.(model.Event)
		if !ok {
			return fmt.Errorf("invalid task type %T", task)
		}
		return a.engine.ProcessEvent(event.Type, event.Data)
	}
	a.eventWorker = util.NewWorker("event-ingest", &a.wg, handler, capacity)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, rest.Dependencies{
		Engine:    a.engine,
		Flows:     a.flowDao,
		Settings:  a.settingDao,
		Scheduler: a.scheduler,
		Store:     a.store,
		Triggers:  a.triggers,
		Operators: a.operators,
		Actions:   a.actions,
		Ingest:    a.eventWorker.Sender(),
	})
	return err
}

func (a *Agent) Start() error {
	a.eventWorker.Start()
	if a.executionLog != nil {
		a.executionLog.Start()
	}
	if err := a.scheduler.Start(); err != nil {
		return err
	}
	go func() {
		if err := a.httpServer.Start(); err != nil && err != http.ErrServerClosed {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down agent")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		a.scheduler.Stop,
		func() error {
			a.eventWorker.Stop()
			return nil
		},
		func() error {
			if a.executionLog != nil {
				a.executionLog.Stop()
			}
			return nil
		},
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	return nil
}
