package engine

import (
	"sync"

	"github.com/castflow/castflow/model"
)

// recorder keeps the bounded execution history and the running counters.
// Totals are lifetime values; the average duration covers only the retained
// history window, so old runs stop influencing it once evicted.
type recorder struct {
	mu       sync.Mutex
	capacity int
	history  []model.ExecutionRecord
	total    int64
	success  int64
	failure  int64
	events   int64
}

func newRecorder(capacity int) *recorder {
	if capacity <= 0 {
		capacity = 100
	}
	return &recorder{
		capacity: capacity,
		history:  make([]model.ExecutionRecord, 0, capacity),
	}
}

func (r *recorder) record(rec model.ExecutionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, rec)
	if len(r.history) > r.capacity {
		r.history = r.history[len(r.history)-r.capacity:]
	}
	r.total++
	if rec.Success {
		r.success++
	} else {
		r.failure++
	}
}

func (r *recorder) eventReceived() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events++
}

// historySnapshot returns up to limit records, newest first. A limit of
// zero or less returns the whole retained window.
func (r *recorder) historySnapshot(limit int) []model.ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.ExecutionRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.history[i])
	}
	return out
}

func (r *recorder) stats() (total, success, failure, events int64, avgDurationMs float64, historySize int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) > 0 {
		var sum int64
		for _, rec := range r.history {
			sum += rec.DurationMs
		}
		avgDurationMs = float64(sum) / float64(len(r.history))
	}
	return r.total, r.success, r.failure, r.events, avgDurationMs, len(r.history)
}
