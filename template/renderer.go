package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/castflow/castflow/store"
	"github.com/oliveagle/jsonpath"
)

// Renderer substitutes {token} placeholders in action parameters. Tokens
// starting with $ are jsonpath expressions over the execution document,
// plain tokens resolve against the event payload first and the variable
// store second. Unresolvable tokens are left in place so broken flows stay
// diagnosable.
type Renderer struct {
	tokenPattern *regexp.Regexp
}

func NewRenderer() *Renderer {
	return &Renderer{
		tokenPattern: regexp.MustCompile("{(.*?)}"),
	}
}

// Render resolves every {token} in the input string.
func (r *Renderer) Render(input string, ec *store.ExecutionContext) string {
	if !strings.Contains(input, "{") {
		return input
	}
	doc := r.document(ec)
	tokens := r.tokenPattern.FindAllString(input, -1)
	out := input
	for _, token := range tokens {
		expr := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
		if expr == "" {
			continue
		}
		value, ok := r.lookup(expr, doc, ec)
		if !ok {
			continue
		}
		out = strings.ReplaceAll(out, token, fmt.Sprintf("%v", value))
	}
	return out
}

// RenderParams walks an action parameter map and renders every string it
// contains, descending into nested maps and lists. The input map is not
// modified.
func (r *Renderer) RenderParams(params map[string]any, ec *store.ExecutionContext) map[string]any {
	output := make(map[string]any, len(params))
	for k, v := range params {
		output[k] = r.renderValue(v, ec)
	}
	return output
}

func (r *Renderer) renderValue(value any, ec *store.ExecutionContext) any {
	switch v := value.(type) {
	case string:
		return r.Render(v, ec)
	case map[string]any:
		return r.RenderParams(v, ec)
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, r.renderValue(item, ec))
		}
		return out
	default:
		return value
	}
}

func (r *Renderer) lookup(expr string, doc map[string]any, ec *store.ExecutionContext) (any, bool) {
	if strings.HasPrefix(expr, "$") {
		value, err := jsonpath.JsonPathLookup(doc, expr)
		if err != nil {
			return nil, false
		}
		return value, true
	}
	if value, ok := lookupPath(ec.EventData, expr); ok {
		return value, true
	}
	if value, ok := ec.Store.Get(expr); ok {
		return value, true
	}
	return nil, false
}

// document assembles the jsonpath root for $ expressions: the event payload,
// a snapshot of the variables and the run metadata.
func (r *Renderer) document(ec *store.ExecutionContext) map[string]any {
	return map[string]any{
		"event":     ec.EventData,
		"variables": ec.Store.Variables(),
		"flow": map[string]any{
			"id":             ec.FlowId,
			"name":           ec.FlowName,
			"executionId":    ec.ExecutionId,
			"executionCount": ec.ExecutionCount,
		},
	}
}

func lookupPath(data map[string]any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
