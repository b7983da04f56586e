package action

import (
	"fmt"
	"time"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
)

// Delay pauses this flow between two actions. Sibling flows matched by the
// same event keep running; only the remaining actions of this flow wait.
func Delay(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	seconds := numberParam(p, "seconds", 0)
	if seconds <= 0 {
		return fmt.Errorf("delay needs seconds > 0")
	}
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return nil
}
