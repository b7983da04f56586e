package registry

import (
	"fmt"
	"sort"
	"sync"
)

// ActionRegistry maps action type names to executors. Registering an
// existing name replaces the previous executor.
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[string]ActionFunc
}

func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		actions: make(map[string]ActionFunc),
	}
}

func (r *ActionRegistry) Register(name string, fn ActionFunc) error {
	if name == "" {
		return fmt.Errorf("action name can not be empty")
	}
	if fn == nil {
		return fmt.Errorf("action %s has no executor", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
	return nil
}

func (r *ActionRegistry) Get(name string) (ActionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}

func (r *ActionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

func (r *ActionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
