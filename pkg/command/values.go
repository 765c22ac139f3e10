package command

import (
	"fmt"
	"strconv"
	"strings"
)

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// animatedValues extracts AnimateItem entries from Command.Value.
func animatedValues(v any) ([]AnimatedValue, error) {
	switch vals := v.(type) {
	case nil:
		return nil, nil
	case []AnimatedValue:
		return vals, nil
	case AnimatedValue:
		return []AnimatedValue{vals}, nil
	case map[string]any:
		return animatedValues([]any{vals})
	case []any:
		out := make([]AnimatedValue, 0, len(vals))
		for i, item := range vals {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("value %d is %T, not a map", i, item)
			}
			prop, _ := m["property"].(string)
			out = append(out, AnimatedValue{Property: prop, From: m["from"], To: m["to"]})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value must be a list of animated values, got %T", v)
	}
}
