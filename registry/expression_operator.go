package registry

import (
	"encoding/json"
	"fmt"

	"github.com/castflow/castflow/logger"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// expressionOperator evaluates the expected value as a javascript expression
// with $ bound to the extracted field value, e.g.
// {operator: "expression", field: "coins", value: "$ > 100 && $ % 2 == 0"}.
// Any script error makes the condition false.
func expressionOperator(actual any, expected any) bool {
	src, ok := expected.(string)
	if !ok || src == "" {
		logger.Warn("expression operator expects a script string", zap.Any("value", expected))
		return false
	}
	data, err := json.Marshal(actual)
	if err != nil {
		data = []byte("null")
	}
	script := fmt.Sprintf("var $ = %s;\n%s", data, src)
	vm := goja.New()
	val, err := vm.RunString(script)
	if err != nil {
		logger.Warn("error evaluating expression operator", zap.String("expression", src), zap.Error(err))
		return false
	}
	return val.ToBoolean()
}
