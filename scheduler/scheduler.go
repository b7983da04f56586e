package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/castflow/castflow/config"
	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
	"github.com/castflow/castflow/util"
	"go.uber.org/zap"
)

// FlowExecutor is the engine surface the scheduler fires into. A timer flow
// is already resolved when its timer goes off, so firing bypasses trigger
// matching and runs the flow directly.
type FlowExecutor interface {
	ExecuteFlow(flow *model.Flow, eventData map[string]any)
}

type timerHandle struct {
	flow   *model.Flow
	mode   model.TimerMode
	cancel func()
}

// Scheduler owns every timer driven trigger: intervals fire indefinitely,
// countdowns fire once and deregister themselves, schedules are polled
// against wall clock time. All handles live in one key indexed map so a
// reload can clear the whole set and rebuild it from the current enabled
// flows; there is no incremental diffing.
type Scheduler struct {
	conf     config.SchedulerConfig
	flows    persistence.FlowDao
	executor FlowExecutor
	timers   *timerManager
	poller   *util.TickWorker
	wg       *sync.WaitGroup

	mu        sync.Mutex
	handles   map[string]*timerHandle
	lastFired map[string]string

	nowMu sync.Mutex
	now   func() time.Time
}

func NewScheduler(conf config.SchedulerConfig, flows persistence.FlowDao, executor FlowExecutor, wg *sync.WaitGroup) *Scheduler {
	if conf.MaxCountdownSeconds <= 0 {
		conf.MaxCountdownSeconds = 3600
	}
	if conf.PollIntervalSeconds <= 0 {
		conf.PollIntervalSeconds = 60
	}
	s := &Scheduler{
		conf:      conf,
		flows:     flows,
		executor:  executor,
		timers:    newTimerManager(conf.MaxCountdownSeconds),
		wg:        wg,
		handles:   make(map[string]*timerHandle),
		lastFired: make(map[string]string),
		now:       time.Now,
	}
	s.poller = util.NewTickWorker("schedule-poller", time.Duration(conf.PollIntervalSeconds)*time.Second, s.pollSchedules, wg)
	return s
}

// SetNowFunc replaces the clock used for schedule matching and timer event
// payloads.
func (s *Scheduler) SetNowFunc(now func() time.Time) {
	s.nowMu.Lock()
	defer s.nowMu.Unlock()
	s.now = now
}

func (s *Scheduler) clock() time.Time {
	s.nowMu.Lock()
	defer s.nowMu.Unlock()
	return s.now()
}

func (s *Scheduler) Start() error {
	s.timers.init()
	s.poller.Start()
	return s.Reload()
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.poller.Stop()
	s.timers.stop()
	logger.Info("scheduler stopped")
	return nil
}

// Reload drops every tracked timer and rebuilds the set from the current
// enabled flows. This is the only way trigger definition changes are picked
// up; the admin surface calls it after every flow save or delete.
func (s *Scheduler) Reload() error {
	flows, err := s.flows.GetEnabledFlows()
	if err != nil {
		logger.Error("error loading flows for scheduler reload", zap.Error(err))
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	for i := range flows {
		flow := flows[i]
		if flow.Timer == nil {
			continue
		}
		s.registerLocked(&flow)
	}
	logger.Info("scheduler reloaded", zap.Int("timers", len(s.handles)))
	return nil
}

// TimerCount reports how many handles are currently tracked.
func (s *Scheduler) TimerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

func (s *Scheduler) registerLocked(flow *model.Flow) {
	key := handleKey(flow.Id, flow.Timer.Mode)
	switch flow.Timer.Mode {
	case model.TIMER_MODE_INTERVAL:
		// Persisted records can bypass the saving surface's validation; a
		// non positive interval would panic the ticker.
		if flow.Timer.IntervalSeconds <= 0 {
			logger.Warn("interval timer has non positive interval, skipping",
				zap.String("flow", flow.Name), zap.Int("intervalSeconds", flow.Timer.IntervalSeconds))
			return
		}
		tick := util.NewTickWorker("interval-"+flow.Id, time.Duration(flow.Timer.IntervalSeconds)*time.Second, func() {
			s.fire(flow, model.TIMER_MODE_INTERVAL)
		}, s.wg)
		tick.Start()
		s.handles[key] = &timerHandle{flow: flow, mode: model.TIMER_MODE_INTERVAL, cancel: tick.Stop}
	case model.TIMER_MODE_COUNTDOWN:
		timer := s.timers.schedule(time.Duration(flow.Timer.CountdownSeconds)*time.Second, func() {
			s.remove(key)
			s.fire(flow, model.TIMER_MODE_COUNTDOWN)
		})
		s.handles[key] = &timerHandle{flow: flow, mode: model.TIMER_MODE_COUNTDOWN, cancel: func() { timer.Stop() }}
	case model.TIMER_MODE_SCHEDULE:
		s.handles[key] = &timerHandle{flow: flow, mode: model.TIMER_MODE_SCHEDULE, cancel: func() {}}
	default:
		logger.Warn("unknown timer mode on flow",
			zap.String("flow", flow.Name), zap.String("mode", string(flow.Timer.Mode)))
	}
}

func (s *Scheduler) clearLocked() {
	for _, h := range s.handles {
		h.cancel()
	}
	s.handles = make(map[string]*timerHandle)
	s.lastFired = make(map[string]string)
}

func (s *Scheduler) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handles, key)
	delete(s.lastFired, key)
}

// pollSchedules walks the schedule handles and fires those whose time and
// day set match the current minute. A handle fires at most once per
// matching minute even when the poll interval is shorter.
func (s *Scheduler) pollSchedules() {
	at := s.clock()
	minute := at.Format("2006-01-02 15:04")
	var due []*model.Flow
	s.mu.Lock()
	for key, h := range s.handles {
		if h.mode != model.TIMER_MODE_SCHEDULE {
			continue
		}
		if !scheduleMatches(h.flow.Timer, at) {
			continue
		}
		if s.lastFired[key] == minute {
			continue
		}
		s.lastFired[key] = minute
		due = append(due, h.flow)
	}
	s.mu.Unlock()
	for _, flow := range due {
		s.fire(flow, model.TIMER_MODE_SCHEDULE)
	}
}

func (s *Scheduler) fire(flow *model.Flow, mode model.TimerMode) {
	logger.Debug("timer fired", zap.String("flow", flow.Name), zap.String("mode", string(mode)))
	s.executor.ExecuteFlow(flow, map[string]any{
		"flowId":   flow.Id,
		"flowName": flow.Name,
		"mode":     string(mode),
		"firedAt":  s.clock().Format(time.RFC3339),
	})
}

// scheduleMatches compares HH:MM and the day set. An empty day set matches
// every day; days are accepted as three letter or full lower case names.
func scheduleMatches(spec *model.TimerSpec, at time.Time) bool {
	if spec == nil || spec.Time != at.Format("15:04") {
		return false
	}
	if len(spec.Days) == 0 {
		return true
	}
	full := strings.ToLower(at.Weekday().String())
	short := full[:3]
	for _, d := range spec.Days {
		day := strings.ToLower(strings.TrimSpace(d))
		if day == full || day == short {
			return true
		}
	}
	return false
}

func handleKey(flowId string, mode model.TimerMode) string {
	return fmt.Sprintf("%s:%s", flowId, mode)
}
