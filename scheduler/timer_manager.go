package scheduler

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

// timerManager wraps a hierarchical timing wheel with one second resolution.
// Countdown triggers land here; the returned timer cancels a pending fire.
type timerManager struct {
	wheel *timingwheel.TimingWheel
}

func newTimerManager(maxDelaySeconds int64) *timerManager {
	return &timerManager{
		wheel: timingwheel.NewTimingWheel(time.Second, maxDelaySeconds),
	}
}

func (m *timerManager) schedule(delay time.Duration, task func()) *timingwheel.Timer {
	return m.wheel.AfterFunc(delay, task)
}

func (m *timerManager) init() {
	m.wheel.Start()
}

func (m *timerManager) stop() {
	m.wheel.Stop()
}
