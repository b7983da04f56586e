package condition

import "strings"

// Older flow definitions reference fields whose payload keys changed over
// time. Extractors are tried in order before the generic dotted path
// lookup; adding a new legacy alias means adding an entry here, the
// evaluator itself stays untouched.
type extractor struct {
	field string
	fn    func(data map[string]any) any
}

var extractors = []extractor{
	{field: "superfanLevel", fn: extractSuperfanLevel},
	{field: "giftType", fn: extractGiftType},
	{field: "giftValue", fn: extractGiftValue},
}

// ExtractField resolves a condition field against the event payload.
func ExtractField(field string, data map[string]any) any {
	for _, ex := range extractors {
		if ex.field == field {
			return ex.fn(data)
		}
	}
	return lookupPath(data, field)
}

// extractSuperfanLevel derives the superfan level from an explicit level or
// flag on the payload, falling back to scanning the badge list. A matching
// badge without a level counts as level 1, no match as 0.
func extractSuperfanLevel(data map[string]any) any {
	if data == nil {
		return 0
	}
	if lvl, ok := toNumber(data["superfanLevel"]); ok && lvl > 0 {
		return lvl
	}
	if flag, ok := data["isSuperfan"].(bool); ok && flag {
		return 1
	}
	badges, ok := data["badges"].([]any)
	if !ok {
		return 0
	}
	for _, b := range badges {
		badge, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if badgeMatches(badge, "superfan") {
			if lvl, ok := toNumber(badge["level"]); ok && lvl > 0 {
				return lvl
			}
			return 1
		}
	}
	return 0
}

func badgeMatches(badge map[string]any, needle string) bool {
	for _, key := range []string{"type", "name"} {
		if s, ok := badge[key].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// extractGiftType falls back from the current payload key to the legacy one.
func extractGiftType(data map[string]any) any {
	if data == nil {
		return nil
	}
	if v, ok := data["giftType"]; ok {
		return v
	}
	return data["giftName"]
}

// extractGiftValue reads the diamond count, falling back to the legacy
// giftValue key.
func extractGiftValue(data map[string]any) any {
	if data == nil {
		return nil
	}
	if v, ok := data["diamondCount"]; ok {
		return v
	}
	return data["giftValue"]
}

func lookupPath(data map[string]any, path string) any {
	if data == nil || path == "" {
		return nil
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = node[segment]
	}
	return current
}
