package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
)

// RegisterBuiltins wires the builtin action set into the registry. Overlay,
// sound and scene actions live in their own plugins and register themselves
// the same way.
func RegisterBuiltins(reg *registry.ActionRegistry) error {
	builtins := map[string]registry.ActionFunc{
		"set_variable":      SetVariable,
		"increment_counter": IncrementCounter,
		"update_state":      UpdateState,
		"set_cooldown":      SetCooldown,
		"chat_guard":        ChatGuard,
		"delay":             Delay,
		"script":            Script,
		"emit_event":        EmitEvent,
		"log":               Log,
	}
	for name, fn := range builtins {
		if err := reg.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// params renders every templated string in the action parameters against the
// execution context before the executor reads them.
func params(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) map[string]any {
	if services != nil && services.Renderer != nil {
		return services.Renderer.RenderParams(spec.Params, ec)
	}
	if spec.Params == nil {
		return map[string]any{}
	}
	return spec.Params
}

func stringParam(p map[string]any, key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing action parameter %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("action parameter %q must be a non empty string", key)
	}
	return s, nil
}

func numberParam(p map[string]any, key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	if n, ok := toNumber(v); ok {
		return n
	}
	return def
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
