package registry

import (
	"sort"
	"sync"
)

// Legacy flow definitions carry short trigger names. The alias table maps
// them to canonical namespaced names and is applied as a normalization pass
// before any registry lookup; the two tiers are kept separate on purpose.
var triggerAliases = map[string]string{
	"gift":         "tiktok:gift",
	"chat":         "tiktok:chat",
	"follow":       "tiktok:follow",
	"share":        "tiktok:share",
	"like":         "tiktok:like",
	"join":         "tiktok:join",
	"subscribe":    "tiktok:subscribe",
	"viewerChange": "tiktok:viewerChange",
}

type TriggerInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TriggerRegistry records which canonical trigger names exist. Matching is
// by exact key after normalization.
type TriggerRegistry struct {
	mu       sync.RWMutex
	triggers map[string]TriggerInfo
}

func NewTriggerRegistry() *TriggerRegistry {
	r := &TriggerRegistry{
		triggers: make(map[string]TriggerInfo),
	}
	for _, info := range []TriggerInfo{
		{Name: "tiktok:chat", Description: "chat message received"},
		{Name: "tiktok:gift", Description: "gift received"},
		{Name: "tiktok:follow", Description: "new follower"},
		{Name: "tiktok:share", Description: "stream shared"},
		{Name: "tiktok:like", Description: "likes received"},
		{Name: "tiktok:join", Description: "viewer joined"},
		{Name: "tiktok:subscribe", Description: "new subscriber"},
		{Name: "tiktok:viewerChange", Description: "viewer count changed"},
		{Name: "timer", Description: "synthesized by the scheduler"},
	} {
		r.triggers[info.Name] = info
	}
	return r
}

// Normalize maps a legacy short name to its canonical name. Unknown names
// pass through unchanged.
func (r *TriggerRegistry) Normalize(name string) string {
	if canonical, ok := triggerAliases[name]; ok {
		return canonical
	}
	return name
}

func (r *TriggerRegistry) Register(info TriggerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers[info.Name] = info
}

func (r *TriggerRegistry) Get(name string) (TriggerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.triggers[r.Normalize(name)]
	return info, ok
}

func (r *TriggerRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.triggers)
}

func (r *TriggerRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.triggers))
	for name := range r.triggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
