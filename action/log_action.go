package action

import (
	"fmt"
	"strings"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
	"go.uber.org/zap"
)

// Log writes a rendered message to the action log. Level accepts debug,
// warn and error; anything else logs at info.
func Log(spec model.ActionSpec, ec *store.ExecutionContext, services *registry.Services) error {
	p := params(spec, ec, services)
	message, err := stringParam(p, "message")
	if err != nil {
		return err
	}
	fields := []zap.Field{
		zap.String("flow", ec.FlowName),
		zap.String("executionId", ec.ExecutionId),
	}
	switch strings.ToLower(fmt.Sprint(p["level"])) {
	case "debug":
		services.Logger.Debug(message, fields...)
	case "warn":
		services.Logger.Warn(message, fields...)
	case "error":
		services.Logger.Error(message, fields...)
	default:
		services.Logger.Info(message, fields...)
	}
	return nil
}
