package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/castflow/castflow/condition"
	"github.com/castflow/castflow/config"
	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/metrics"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
	"github.com/castflow/castflow/template"
	"go.uber.org/zap"
)

// FlowEngine receives live stream events, selects the enabled flows whose
// trigger matches, evaluates their conditions and runs their action lists.
// Matched flows run concurrently and isolated from each other; actions
// within one flow run strictly in order. A shared depth stack bounds the
// cascades that arise when an action feeds events back into the engine.
type FlowEngine struct {
	flows     persistence.FlowDao
	settings  persistence.SettingDao
	store     *store.Store
	triggers  *registry.TriggerRegistry
	operators *registry.OperatorRegistry
	actions   *registry.ActionRegistry
	evaluator *condition.Evaluator
	services  *registry.Services

	maxDepth int

	mu         sync.Mutex
	depth      []string
	execCounts map[string]int64

	recorder  *recorder
	publisher *publisher
}

func NewFlowEngine(conf config.EngineConfig, flows persistence.FlowDao, settings persistence.SettingDao,
	st *store.Store, triggers *registry.TriggerRegistry, operators *registry.OperatorRegistry,
	actions *registry.ActionRegistry, renderer *template.Renderer) *FlowEngine {
	if conf.MaxExecutionDepth <= 0 {
		conf.MaxExecutionDepth = 10
	}
	e := &FlowEngine{
		flows:      flows,
		settings:   settings,
		store:      st,
		triggers:   triggers,
		operators:  operators,
		actions:    actions,
		evaluator:  condition.NewEvaluator(operators),
		maxDepth:   conf.MaxExecutionDepth,
		execCounts: make(map[string]int64),
		recorder:   newRecorder(conf.HistoryCapacity),
		publisher:  newPublisher(conf.PublishCapacity),
	}
	e.services = &registry.Services{
		Store:    st,
		Renderer: renderer,
		Engine:   e,
		Flows:    flows,
		Logger:   logger.Named("action"),
	}
	return e
}

// ProcessEvent is the single ingestion point for live stream events. The
// call returns once every matched flow has settled; one flow failing never
// cancels or blocks its siblings. Top-level failures, a flow list that
// cannot be loaded included, are logged and published as flow_error and the
// event still counts as handled.
func (e *FlowEngine) ProcessEvent(eventType string, eventData map[string]any) error {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected error processing event", zap.String("event", eventType), zap.Any("panic", r))
			e.publish(model.Notification{
				Type:  model.NOTIFY_FLOW_ERROR,
				Error: fmt.Sprintf("%v", r),
				Data:  map[string]any{"event": eventType},
			})
		}
	}()
	if !e.automationEnabled() {
		logger.Debug("automation disabled, dropping event", zap.String("event", eventType))
		return nil
	}
	canonical := e.triggers.Normalize(eventType)
	if eventData == nil {
		eventData = make(map[string]any)
	}
	e.store.AddEvent(model.Event{Type: canonical, Data: eventData, Timestamp: time.Now()})
	e.recorder.eventReceived()
	metrics.RecordEventReceived()
	e.publish(model.Notification{
		Type: model.NOTIFY_EVENT_RECEIVED,
		Data: map[string]any{"event": canonical},
	})

	flows, err := e.flows.GetEnabledFlows()
	if err != nil {
		logger.Error("error loading enabled flows", zap.String("event", canonical), zap.Error(err))
		e.publish(model.Notification{Type: model.NOTIFY_FLOW_ERROR, Error: err.Error()})
		return nil
	}
	var matched []model.Flow
	for _, flow := range flows {
		if e.triggers.Normalize(flow.Trigger) == canonical {
			matched = append(matched, flow)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	logger.Debug("dispatching event to flows", zap.String("event", canonical), zap.Int("flows", len(matched)))
	var wg sync.WaitGroup
	for i := range matched {
		flow := matched[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.ExecuteFlow(&flow, eventData)
		}()
	}
	wg.Wait()
	return nil
}

// ExecuteFlow runs one flow against an event payload. The depth guard is
// checked first: when the stack is full the flow is skipped without a
// record, which is what stops action-triggered event loops from running
// away. Push and pop are paired on every exit path.
func (e *FlowEngine) ExecuteFlow(flow *model.Flow, eventData map[string]any) {
	if !e.enter(flow.Id) {
		logger.Warn("max execution depth reached, skipping flow",
			zap.String("flow", flow.Name), zap.String("flowId", flow.Id), zap.Int("maxDepth", e.maxDepth))
		return
	}
	defer e.leave()
	e.run(flow, eventData)
}

// ExecuteFlowByID is the manual entry point used by the run now endpoint.
func (e *FlowEngine) ExecuteFlowByID(id string, eventData map[string]any) error {
	flow, err := e.flows.GetFlow(id)
	if err != nil {
		if _, ok := err.(persistence.NotFoundError); ok {
			return FlowNotFoundError{Id: id}
		}
		return err
	}
	if !flow.Enabled {
		return FlowDisabledError{Id: flow.Id, Name: flow.Name}
	}
	e.ExecuteFlow(flow, eventData)
	return nil
}

func (e *FlowEngine) run(flow *model.Flow, eventData map[string]any) {
	executionId := uuid.New().String()
	count := e.nextExecutionCount(flow.Id)
	if eventData == nil {
		eventData = make(map[string]any)
	}
	ec := e.store.CreateContext(eventData, flow.Id, flow.Name, executionId, count)
	start := time.Now()
	var results []model.ActionResult
	defer func() {
		if r := recover(); r != nil {
			logger.Error("flow execution panic",
				zap.String("flow", flow.Name), zap.String("executionId", executionId), zap.Any("panic", r))
			e.record(model.ExecutionRecord{
				ExecutionId:   executionId,
				FlowId:        flow.Id,
				FlowName:      flow.Name,
				Success:       false,
				ActionResults: results,
				DurationMs:    time.Since(start).Milliseconds(),
				Error:         fmt.Sprintf("%v", r),
				Timestamp:     time.Now(),
			})
		}
	}()

	e.publish(model.Notification{
		Type: model.NOTIFY_FLOW_STARTED, FlowId: flow.Id, FlowName: flow.Name, ExecutionId: executionId,
	})
	if !e.evaluator.Evaluate(flow.Condition, ec) {
		logger.Debug("conditions not met, skipping flow",
			zap.String("flow", flow.Name), zap.String("executionId", executionId))
		e.publish(model.Notification{
			Type: model.NOTIFY_FLOW_SKIPPED, FlowId: flow.Id, FlowName: flow.Name, ExecutionId: executionId,
		})
		return
	}
	e.publish(model.Notification{
		Type: model.NOTIFY_CONDITIONS_MET, FlowId: flow.Id, FlowName: flow.Name, ExecutionId: executionId,
	})

	success := true
	for _, spec := range flow.Actions {
		if ec.Stopped() {
			logger.Debug("flow stopped by action, skipping remaining actions",
				zap.String("flow", flow.Name), zap.String("executionId", executionId))
			break
		}
		e.publish(model.Notification{
			Type: model.NOTIFY_ACTION_STARTED, FlowId: flow.Id, FlowName: flow.Name,
			ExecutionId: executionId, Action: spec.Type,
		})
		res := e.runAction(spec, ec)
		results = append(results, res)
		metrics.RecordAction(res.Success)
		if res.Success {
			e.publish(model.Notification{
				Type: model.NOTIFY_ACTION_COMPLETED, FlowId: flow.Id, FlowName: flow.Name,
				ExecutionId: executionId, Action: spec.Type,
			})
		} else {
			success = false
			e.publish(model.Notification{
				Type: model.NOTIFY_ACTION_FAILED, FlowId: flow.Id, FlowName: flow.Name,
				ExecutionId: executionId, Action: spec.Type, Error: res.Error,
			})
		}
	}

	rec := model.ExecutionRecord{
		ExecutionId:   executionId,
		FlowId:        flow.Id,
		FlowName:      flow.Name,
		Success:       success,
		ActionResults: results,
		DurationMs:    time.Since(start).Milliseconds(),
		Timestamp:     time.Now(),
	}
	if !success {
		rec.Error = firstActionError(results)
	}
	e.record(rec)
}

// runAction looks the executor up and invokes it. Errors and panics both
// become failed results; nothing an executor does can abort the flow run.
func (e *FlowEngine) runAction(spec model.ActionSpec, ec *store.ExecutionContext) (res model.ActionResult) {
	res.Type = spec.Type
	start := time.Now()
	defer func() {
		res.DurationMs = time.Since(start).Milliseconds()
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("action panic: %v", r)
			logger.Error("action executor panic",
				zap.String("action", spec.Type), zap.String("executionId", ec.ExecutionId), zap.Any("panic", r))
		}
	}()
	fn, ok := e.actions.Get(spec.Type)
	if !ok {
		res.Error = fmt.Sprintf("unknown action type %s", spec.Type)
		logger.Warn("unknown action type", zap.String("action", spec.Type), zap.String("flow", ec.FlowName))
		return
	}
	if err := fn(spec, ec, e.services); err != nil {
		res.Error = err.Error()
		return
	}
	res.Success = true
	return
}

func (e *FlowEngine) record(rec model.ExecutionRecord) {
	e.recorder.record(rec)
	metrics.RecordExecution(rec.Success, rec.DurationMs)
	notifyType := model.NOTIFY_FLOW_COMPLETED
	if !rec.Success {
		notifyType = model.NOTIFY_FLOW_ERROR
	}
	e.publish(model.Notification{
		Type:        notifyType,
		FlowId:      rec.FlowId,
		FlowName:    rec.FlowName,
		ExecutionId: rec.ExecutionId,
		Error:       rec.Error,
		Record:      &rec,
	})
}

func (e *FlowEngine) enter(flowId string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.depth) >= e.maxDepth {
		return false
	}
	e.depth = append(e.depth, flowId)
	return true
}

func (e *FlowEngine) leave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.depth = e.depth[:len(e.depth)-1]
}

// Depth reports how many flow frames are currently in flight.
func (e *FlowEngine) Depth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.depth)
}

func (e *FlowEngine) nextExecutionCount(flowId string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.execCounts[flowId]++
	return e.execCounts[flowId]
}

// automationEnabled reads the global kill switch. A missing setting or a
// storage error counts as enabled.
func (e *FlowEngine) automationEnabled() bool {
	setting, err := e.settings.GetSetting(model.SETTING_AUTOMATION_ENABLED)
	if err != nil {
		return true
	}
	return asBool(setting.Value, true)
}

func asBool(v any, def bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch b {
		case "false", "0", "off", "no":
			return false
		case "true", "1", "on", "yes":
			return true
		}
		return def
	case float64:
		return b != 0
	case int:
		return b != 0
	default:
		return def
	}
}

func firstActionError(results []model.ActionResult) string {
	for _, res := range results {
		if !res.Success {
			return res.Error
		}
	}
	return ""
}

// Subscribe returns a feed of lifecycle notifications and final execution
// records. Publication is fire and forget; a full subscriber buffer drops
// notifications instead of blocking the engine.
func (e *FlowEngine) Subscribe() <-chan model.Notification {
	return e.publisher.subscribe()
}

func (e *FlowEngine) publish(n model.Notification) {
	e.publisher.publish(n)
}

// History returns up to limit execution records, newest first.
func (e *FlowEngine) History(limit int) []model.ExecutionRecord {
	return e.recorder.historySnapshot(limit)
}

// Stats assembles a read only snapshot for the dashboard. Nothing here
// mutates engine state.
func (e *FlowEngine) Stats() model.EngineStats {
	total, success, failure, events, avg, size := e.recorder.stats()
	st := model.EngineStats{
		TotalExecutions: total,
		SuccessCount:    success,
		FailureCount:    failure,
		EventsReceived:  events,
		AvgDurationMs:   avg,
		HistorySize:     size,
		Triggers:        e.triggers.Count(),
		Operators:       e.operators.Count(),
		Actions:         e.actions.Count(),
	}
	if flows, err := e.flows.GetFlows(); err == nil {
		st.TotalFlows = len(flows)
		for _, flow := range flows {
			if flow.Enabled {
				st.ActiveFlows++
			}
		}
	}
	return st
}
