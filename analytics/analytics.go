package analytics

import (
	"sync"

	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
)

// Collector receives the outcome of every recorded flow run.
type Collector interface {
	RecordExecution(rec model.ExecutionRecord)
}

// ExecutionLog drains an engine notification feed and hands every final
// execution record to the collector. Lifecycle notifications without a
// record are ignored here; the dashboard feed carries those.
type ExecutionLog struct {
	notifications <-chan model.Notification
	collector     Collector
	stop          chan struct{}
	wg            *sync.WaitGroup
}

func NewExecutionLog(notifications <-chan model.Notification, collector Collector, wg *sync.WaitGroup) *ExecutionLog {
	return &ExecutionLog{
		notifications: notifications,
		collector:     collector,
		stop:          make(chan struct{}),
		wg:            wg,
	}
}

func (l *ExecutionLog) Start() {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case n := <-l.notifications:
				if n.Record != nil {
					l.collector.RecordExecution(*n.Record)
				}
			case <-l.stop:
				logger.Info("stopping execution log collector")
				return
			}
		}
	}()
}

func (l *ExecutionLog) Stop() {
	l.stop <- struct{}{}
}
