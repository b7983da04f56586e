package store

import (
	"sync"
	"time"
)

// ExecutionContext is the ephemeral per-run view handed to conditions and
// actions. It carries the triggering event payload, run metadata and a live
// reference to the shared store. One context is created per flow invocation
// and never reused.
type ExecutionContext struct {
	EventData      map[string]any
	FlowId         string
	FlowName       string
	ExecutionId    string
	ExecutionCount int64
	CreatedAt      time.Time
	Store          *Store

	mu      sync.Mutex
	stopped bool
}

// CreateContext builds a fresh context bound to this store.
func (s *Store) CreateContext(eventData map[string]any, flowId string, flowName string, executionId string, executionCount int64) *ExecutionContext {
	if eventData == nil {
		eventData = make(map[string]any)
	}
	s.mu.RLock()
	now := s.now()
	s.mu.RUnlock()
	return &ExecutionContext{
		EventData:      eventData,
		FlowId:         flowId,
		FlowName:       flowName,
		ExecutionId:    executionId,
		ExecutionCount: executionCount,
		CreatedAt:      now,
		Store:          s,
	}
}

// SetStop marks the run so remaining actions are skipped. Already executed
// actions are unaffected.
func (ec *ExecutionContext) SetStop() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.stopped = true
}

func (ec *ExecutionContext) Stopped() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.stopped
}
