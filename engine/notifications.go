package engine

import (
	"sync"
	"time"

	"github.com/castflow/castflow/model"
)

// publisher fans engine notifications out to every subscriber. Sends never
// block: a subscriber that stops draining loses notifications instead of
// stalling flow execution.
type publisher struct {
	mu       sync.RWMutex
	capacity int
	subs     []chan model.Notification
}

func newPublisher(capacity int) *publisher {
	if capacity <= 0 {
		capacity = 256
	}
	return &publisher{capacity: capacity}
}

func (p *publisher) subscribe() <-chan model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan model.Notification, p.capacity)
	p.subs = append(p.subs, ch)
	return ch
}

func (p *publisher) publish(n model.Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, ch := range p.subs {
		select {
		case ch <- n:
		default:
		}
	}
}
