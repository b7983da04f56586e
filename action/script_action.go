package action

import (
	"encoding/json"
	"fmt"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
	"github.com/dop251/goja"
)

// Script runs a javascript snippet with $ bound to the execution document:
// event payload, a variables snapshot and the flow metadata. Host functions
// let scripts write back into the store or stop the flow. The source is read
// raw, not template rendered, so braces in the script stay untouched.
func Script(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	src, _ := spec.Params["source"].(string)
	if src == "" {
		return fmt.Errorf("missing action parameter %q", "source")
	}
	doc := map[string]any{
		"event":     ec.EventData,
		"variables": services.Store.Variables(),
		"flow": map[string]any{
			"id":             ec.FlowId,
			"name":           ec.FlowName,
			"executionId":    ec.ExecutionId,
			"executionCount": ec.ExecutionCount,
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		data = []byte("{}")
	}
	vm := goja.New()
	bindings := map[string]any{
		"setVariable": func(name string, value any) {
			services.Store.Set(name, value)
		},
		"getVariable": func(name string) any {
			v, _ := services.Store.Get(name)
			return v
		},
		"incrementCounter": func(name string) int64 {
			return services.Store.Increment(name, 1)
		},
		"stopFlow": func() {
			ec.SetStop()
		},
	}
	for name, fn := range bindings {
		if err := vm.Set(name, fn); err != nil {
			return err
		}
	}
	script := fmt.Sprintf("var $ = %s;\n%s", data, src)
	if _, err := vm.RunString(script); err != nil {
		return fmt.Errorf("error executing javascript %w", err)
	}
	return nil
}
