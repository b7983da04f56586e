package action

import (
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
)

// EmitEvent feeds a synthetic event back into the engine. Flows triggered
// this way run inline and count against the execution depth guard, which is
// what keeps self triggering flows from running away. Without a data
// parameter the current event payload is forwarded.
func EmitEvent(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	eventType, err := stringParam(p, "event")
	if err != nil {
		return err
	}
	data, _ := p["data"].(map[string]any)
	if data == nil {
		data = ec.EventData
	}
	return services.Engine.ProcessEvent(eventType, data)
}
