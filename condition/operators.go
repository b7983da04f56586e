package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/castflow/castflow/registry"
)

// Builtin comparison set, consulted after the pluggable operator registry.
// Comparisons mirror the loose semantics of the original flow definitions:
// equality compares numerically when both sides are numeric, numeric
// operators coerce both sides and fail closed when either side is not a
// number, string operators are case insensitive.
var fallbackOperators = map[string]registry.OperatorFunc{
	"equals":        looseEquals,
	"not_equals":    func(actual, expected any) bool { return !looseEquals(actual, expected) },
	"greater_than":  func(actual, expected any) bool { return compareNumeric(actual, expected, func(a, b float64) bool { return a > b }) },
	"less_than":     func(actual, expected any) bool { return compareNumeric(actual, expected, func(a, b float64) bool { return a < b }) },
	"greater_equal": func(actual, expected any) bool { return compareNumeric(actual, expected, func(a, b float64) bool { return a >= b }) },
	"less_equal":    func(actual, expected any) bool { return compareNumeric(actual, expected, func(a, b float64) bool { return a <= b }) },
	"contains":      containsFold,
	"not_contains":  func(actual, expected any) bool { return !containsFold(actual, expected) },
	"starts_with": func(actual, expected any) bool {
		return strings.HasPrefix(foldString(actual), foldString(expected))
	},
	"ends_with": func(actual, expected any) bool {
		return strings.HasSuffix(foldString(actual), foldString(expected))
	},
}

func looseEquals(actual, expected any) bool {
	an, aok := toNumber(actual)
	en, eok := toNumber(expected)
	if aok && eok {
		return an == en
	}
	return fmt.Sprint(actual) == fmt.Sprint(expected)
}

func compareNumeric(actual, expected any, cmp func(a, b float64) bool) bool {
	an, aok := toNumber(actual)
	en, eok := toNumber(expected)
	if !aok || !eok {
		return false
	}
	return cmp(an, en)
}

func containsFold(actual, expected any) bool {
	return strings.Contains(foldString(actual), foldString(expected))
}

func foldString(v any) string {
	return strings.ToLower(fmt.Sprint(v))
}

// toNumber coerces numbers, numeric strings and booleans.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
