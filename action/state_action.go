package action

import (
	"fmt"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
)

// UpdateState writes a value into the shared state tree. A blocked or
// malformed path surfaces as a failed action and leaves the tree untouched.
func UpdateState(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	path, err := stringParam(p, "path")
	if err != nil {
		return err
	}
	value, ok := p["value"]
	if !ok {
		return fmt.Errorf("missing action parameter %q", "value")
	}
	return services.Store.UpdateState(path, value)
}
