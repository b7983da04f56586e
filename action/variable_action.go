package action

import (
	"fmt"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
)

// SetVariable stores a named value. The value accepts templates, so
// "{username}" stores the resolved sender name.
func SetVariable(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	name, err := stringParam(p, "name")
	if err != nil {
		return err
	}
	value, ok := p["value"]
	if !ok {
		return fmt.Errorf("missing action parameter %q", "value")
	}
	services.Store.Set(name, value)
	return nil
}

// IncrementCounter adds amount (default 1) to a named counter. A negative
// amount decrements.
func IncrementCounter(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	name, err := stringParam(p, "name")
	if err != nil {
		return err
	}
	amount := int64(numberParam(p, "amount", 1))
	services.Store.Increment(name, amount)
	return nil
}
