package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/castflow/castflow/config"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence/inmem"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	mu     sync.Mutex
	fired  []string
	events []map[string]any
}

func (r *recordingExecutor) ExecuteFlow(flow *model.Flow, eventData map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, flow.Id)
	r.events = append(r.events, eventData)
}

func (r *recordingExecutor) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func (r *recordingExecutor) lastEvent() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func timerFlow(id string, spec model.TimerSpec) model.Flow {
	return model.Flow{
		Id:      id,
		Name:    "timer flow " + id,
		Enabled: true,
		Trigger: "timer",
		Actions: []model.ActionSpec{{Type: "log"}},
		Timer:   &spec,
	}
}

func TestIntervalTimerFires(t *testing.T) {
	flows := inmem.NewInMemFlowDao()
	require.NoError(t, flows.SaveFlow(timerFlow("f1", model.TimerSpec{Mode: model.TIMER_MODE_INTERVAL, IntervalSeconds: 1})))

	exec := &recordingExecutor{}
	var wg sync.WaitGroup
	s := NewScheduler(config.SchedulerConfig{PollIntervalSeconds: 1}, flows, exec, &wg)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return exec.count() >= 2 }, 5*time.Second, 50*time.Millisecond,
		"interval timer keeps firing")
	require.Equal(t, 1, s.TimerCount())

	evt := exec.lastEvent()
	require.Equal(t, "f1", evt["flowId"])
	require.Equal(t, string(model.TIMER_MODE_INTERVAL), evt["mode"])
}

func TestCountdownFiresOnceAndDeregisters(t *testing.T) {
	flows := inmem.NewInMemFlowDao()
	require.NoError(t, flows.SaveFlow(timerFlow("f1", model.TimerSpec{Mode: model.TIMER_MODE_COUNTDOWN, CountdownSeconds: 1})))

	exec := &recordingExecutor{}
	var wg sync.WaitGroup
	s := NewScheduler(config.SchedulerConfig{PollIntervalSeconds: 1}, flows, exec, &wg)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return exec.count() == 1 }, 5*time.Second, 50*time.Millisecond)
	require.Equal(t, 0, s.TimerCount(), "countdown removes its own handle after firing")

	time.Sleep(2 * time.Second)
	require.Equal(t, 1, exec.count(), "countdown fires exactly once")
}

func TestReloadClearsHandles(t *testing.T) {
	flows := inmem.NewInMemFlowDao()
	require.NoError(t, flows.SaveFlow(timerFlow("f1", model.TimerSpec{Mode: model.TIMER_MODE_INTERVAL, IntervalSeconds: 3600})))
	require.NoError(t, flows.SaveFlow(timerFlow("f2", model.TimerSpec{Mode: model.TIMER_MODE_SCHEDULE, Time: "12:00"})))
	require.NoError(t, flows.SaveFlow(model.Flow{
		Id: "f3", Name: "no timer", Enabled: true, Trigger: "tiktok:gift",
		Actions: []model.ActionSpec{{Type: "log"}},
	}))

	exec := &recordingExecutor{}
	var wg sync.WaitGroup
	s := NewScheduler(config.SchedulerConfig{}, flows, exec, &wg)

	require.NoError(t, s.Reload())
	require.Equal(t, 2, s.TimerCount(), "only timer flows get handles")

	require.NoError(t, flows.DeleteFlow("f1"))
	require.NoError(t, flows.DeleteFlow("f2"))
	require.NoError(t, s.Reload())
	require.Equal(t, 0, s.TimerCount())
}

func TestReloadSkipsCorruptInterval(t *testing.T) {
	// Written straight to storage, bypassing the validation the saving
	// surface applies. Reload must survive it.
	flows := inmem.NewInMemFlowDao()
	require.NoError(t, flows.SaveFlow(timerFlow("bad", model.TimerSpec{Mode: model.TIMER_MODE_INTERVAL})))
	require.NoError(t, flows.SaveFlow(timerFlow("good", model.TimerSpec{Mode: model.TIMER_MODE_INTERVAL, IntervalSeconds: 3600})))

	exec := &recordingExecutor{}
	var wg sync.WaitGroup
	s := NewScheduler(config.SchedulerConfig{}, flows, exec, &wg)

	require.NotPanics(t, func() { require.NoError(t, s.Reload()) })
	require.Equal(t, 1, s.TimerCount(), "zero interval flow gets no handle")

	require.NoError(t, flows.DeleteFlow("bad"))
	require.NoError(t, flows.DeleteFlow("good"))
	require.NoError(t, s.Reload())
	require.Equal(t, 0, s.TimerCount())
}

func TestDisabledFlowNotScheduled(t *testing.T) {
	flows := inmem.NewInMemFlowDao()
	flow := timerFlow("f1", model.TimerSpec{Mode: model.TIMER_MODE_INTERVAL, IntervalSeconds: 3600})
	flow.Enabled = false
	require.NoError(t, flows.SaveFlow(flow))

	exec := &recordingExecutor{}
	var wg sync.WaitGroup
	s := NewScheduler(config.SchedulerConfig{}, flows, exec, &wg)
	require.NoError(t, s.Reload())
	require.Equal(t, 0, s.TimerCount())
}

func TestScheduleMatches(t *testing.T) {
	// 2025-11-04 is a Tuesday.
	tuesday := time.Date(2025, time.November, 4, 18, 30, 0, 0, time.UTC)
	for scenario, fn := range map[string]func(t *testing.T){
		"time and day match": func(t *testing.T) {
			spec := &model.TimerSpec{Mode: model.TIMER_MODE_SCHEDULE, Time: "18:30", Days: []string{"tue"}}
			require.True(t, scheduleMatches(spec, tuesday))
		},
		"full day name": func(t *testing.T) {
			spec := &model.TimerSpec{Mode: model.TIMER_MODE_SCHEDULE, Time: "18:30", Days: []string{"Tuesday"}}
			require.True(t, scheduleMatches(spec, tuesday))
		},
		"empty day set matches every day": func(t *testing.T) {
			spec := &model.TimerSpec{Mode: model.TIMER_MODE_SCHEDULE, Time: "18:30"}
			require.True(t, scheduleMatches(spec, tuesday))
		},
		"wrong time": func(t *testing.T) {
			spec := &model.TimerSpec{Mode: model.TIMER_MODE_SCHEDULE, Time: "18:31", Days: []string{"tue"}}
			require.False(t, scheduleMatches(spec, tuesday))
		},
		"wrong day": func(t *testing.T) {
			spec := &model.TimerSpec{Mode: model.TIMER_MODE_SCHEDULE, Time: "18:30", Days: []string{"mon", "wed"}}
			require.False(t, scheduleMatches(spec, tuesday))
		},
		"nil spec": func(t *testing.T) {
			require.False(t, scheduleMatches(nil, tuesday))
		},
	} {
		t.Run(scenario, fn)
	}
}

func TestSchedulePollerFiresOncePerMinute(t *testing.T) {
	flows := inmem.NewInMemFlowDao()
	require.NoError(t, flows.SaveFlow(timerFlow("f1", model.TimerSpec{
		Mode: model.TIMER_MODE_SCHEDULE, Time: "18:30", Days: []string{"tue"},
	})))

	clock := &fakeClock{t: time.Date(2025, time.November, 4, 18, 30, 0, 0, time.UTC)}
	exec := &recordingExecutor{}
	var wg sync.WaitGroup
	s := NewScheduler(config.SchedulerConfig{PollIntervalSeconds: 1}, flows, exec, &wg)
	s.SetNowFunc(clock.now)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return exec.count() == 1 }, 5*time.Second, 50*time.Millisecond)

	// Further polls within the same minute must not fire again.
	time.Sleep(2500 * time.Millisecond)
	require.Equal(t, 1, exec.count())

	// Next minute no longer matches the configured time.
	clock.set(time.Date(2025, time.November, 4, 18, 31, 0, 0, time.UTC))
	time.Sleep(1500 * time.Millisecond)
	require.Equal(t, 1, exec.count())

	// The following Tuesday at the configured time fires again.
	clock.set(time.Date(2025, time.November, 11, 18, 30, 0, 0, time.UTC))
	require.Eventually(t, func() bool { return exec.count() == 2 }, 5*time.Second, 50*time.Millisecond)
}
