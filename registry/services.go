package registry

import (
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/persistence"
	"github.com/castflow/castflow/store"
	"github.com/castflow/castflow/template"
	"go.uber.org/zap"
)

// FlowRunner is the engine surface handed to action executors. Actions may
// feed events back into the engine; the execution depth guard bounds the
// cascades that can cause.
type FlowRunner interface {
	ProcessEvent(eventType string, eventData map[string]any) error
	ExecuteFlowByID(id string, eventData map[string]any) error
}

// Services is the dependency bundle injected into every action executor.
type Services struct {
	Store    *store.Store
	Renderer *template.Renderer
	Engine   FlowRunner
	Flows    persistence.FlowDao
	Logger   *zap.Logger
}

// ActionFunc executes one action of a flow. A nil return means success; the
// engine converts both returned errors and panics into failed action
// results, so executors never abort a run on their own.
type ActionFunc func(spec model.ActionSpec, ec *store.ExecutionContext, services *Services) error

// OperatorFunc compares the value extracted from the event payload against
// the value configured on the condition.
type OperatorFunc func(actual any, expected any) bool
