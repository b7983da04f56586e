package registry

import (
	"sort"
	"sync"
)

// OperatorRegistry holds pluggable condition operators. The evaluator
// consults it before its fixed fallback table, so registered operators can
// shadow the builtin comparison set.
type OperatorRegistry struct {
	mu        sync.RWMutex
	operators map[string]OperatorFunc
}

func NewOperatorRegistry() *OperatorRegistry {
	r := &OperatorRegistry{
		operators: make(map[string]OperatorFunc),
	}
	r.operators["expression"] = expressionOperator
	return r
}

func (r *OperatorRegistry) Register(name string, fn OperatorFunc) {
	if name == "" || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[name] = fn
}

func (r *OperatorRegistry) Get(name string) (OperatorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.operators[name]
	return fn, ok
}

func (r *OperatorRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.operators)
}

func (r *OperatorRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.operators))
	for name := range r.operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
