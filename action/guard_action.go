package action

import (
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
	"go.uber.org/zap"
)

// SetCooldown stamps a cooldown key, typically after an expensive effect
// ran, so a later chat_guard on the same key suppresses repeats.
func SetCooldown(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	key, err := stringParam(p, "key")
	if err != nil {
		return err
	}
	services.Store.SetCooldown(key)
	return nil
}

// ChatGuard gates the rest of the flow behind a cooldown and a sliding
// window rate limit. When either says no, the remaining actions are skipped
// via the stop flag; the guard itself still counts as a successful action.
// When the gate passes, the guard records the usage it just permitted.
func ChatGuard(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	key, err := stringParam(p, "key")
	if err != nil {
		return err
	}
	cooldownSeconds := int(numberParam(p, "cooldownSeconds", 0))
	maxPerWindow := int(numberParam(p, "maxPerWindow", 0))
	windowSeconds := int(numberParam(p, "windowSeconds", 60))

	st := services.Store
	if cooldownSeconds > 0 && st.IsCooldownActive(key, cooldownSeconds) {
		services.Logger.Debug("chat guard on cooldown, stopping flow",
			zap.String("key", key), zap.String("flow", ec.FlowName))
		ec.SetStop()
		return nil
	}
	if maxPerWindow > 0 && !st.CheckRateLimit(key, maxPerWindow, windowSeconds) {
		services.Logger.Debug("chat guard rate limited, stopping flow",
			zap.String("key", key), zap.String("flow", ec.FlowName))
		ec.SetStop()
		return nil
	}
	if cooldownSeconds > 0 {
		st.SetCooldown(key)
	}
	if maxPerWindow > 0 {
		st.AddRateLimitEntry(key)
	}
	return nil
}
