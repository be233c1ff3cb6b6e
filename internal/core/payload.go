package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is a decoded JSON object as sent or received by a remote service.
type Payload = map[string]any

// IDOf renders a loosely typed identifier value. Nil, blank strings and
// structured values are not identifiers.
func IDOf(v any) (ID, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		x = strings.TrimSpace(x)
		return ID(x), x != ""
	case ID:
		return x, !x.IsEmpty()
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IDFromInt(i), true
		}
		if f, err := x.Float64(); err == nil {
			return IDFromFloat(f), true
		}
		s := strings.TrimSpace(x.String())
		return ID(s), s != ""
	case float64:
		return IDFromFloat(x), true
	case float32:
		return IDFromFloat(float64(x)), true
	case int:
		return IDFromInt(int64(x)), true
	case int32:
		return IDFromInt(int64(x)), true
	case int64:
		return IDFromInt(x), true
	case uint:
		return IDFromInt(int64(x)), true
	case uint32:
		return IDFromInt(int64(x)), true
	case uint64:
		return IDFromInt(int64(x)), true
	case bool, map[string]any, []any:
		return "", false
	default:
		s := strings.TrimSpace(fmt.Sprint(x))
		return ID(s), s != ""
	}
}
