package condition

import (
	"strings"

	"github.com/castflow/castflow/logger"
	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
	"go.uber.org/zap"
)

// Evaluator decides whether a flow should run for a given event. It handles
// both condition shapes: nested AND/OR/NOT trees and the legacy flat
// {operator, field, value} triple. No condition means the flow always runs.
type Evaluator struct {
	operators *registry.OperatorRegistry
}

func NewEvaluator(operators *registry.OperatorRegistry) *Evaluator {
	return &Evaluator{operators: operators}
}

func (ev *Evaluator) Evaluate(cond *model.Condition, ec *store.ExecutionContext) bool {
	if cond == nil {
		return true
	}
	if cond.IsGroup() {
		return ev.evaluateGroup(cond, ec)
	}
	return ev.evaluateLeaf(cond, ec)
}

// evaluateGroup folds the children with short circuiting: AND stops at the
// first false child, OR at the first true child, NOT inverts its single
// child. Empty groups follow the standard folds (AND true, OR false).
func (ev *Evaluator) evaluateGroup(cond *model.Condition, ec *store.ExecutionContext) bool {
	switch strings.ToUpper(cond.Logic) {
	case "AND":
		for i := range cond.Conditions {
			if !ev.Evaluate(&cond.Conditions[i], ec) {
				return false
			}
		}
		return true
	case "OR":
		for i := range cond.Conditions {
			if ev.Evaluate(&cond.Conditions[i], ec) {
				return true
			}
		}
		return false
	case "NOT":
		if len(cond.Conditions) == 0 {
			return false
		}
		return !ev.Evaluate(&cond.Conditions[0], ec)
	default:
		logger.Warn("unknown condition logic", zap.String("logic", cond.Logic))
		return false
	}
}

// evaluateLeaf resolves the field value through the legacy extractor list,
// then applies the operator: registered operators first, the builtin table
// second. Unknown operators fail closed.
func (ev *Evaluator) evaluateLeaf(cond *model.Condition, ec *store.ExecutionContext) bool {
	if cond.Operator == "" {
		return true
	}
	var eventData map[string]any
	if ec != nil {
		eventData = ec.EventData
	}
	actual := ExtractField(cond.Field, eventData)
	if ev.operators != nil {
		if fn, ok := ev.operators.Get(cond.Operator); ok {
			return fn(actual, cond.Value)
		}
	}
	if fn, ok := fallbackOperators[cond.Operator]; ok {
		return fn(actual, cond.Value)
	}
	logger.Warn("unknown condition operator", zap.String("operator", cond.Operator), zap.String("field", cond.Field))
	return false
}
