// Package identity resolves the canonical user identifier from the loosely
// shaped "current user" value returned by the user service.
package identity

import "finboard/internal/core"

// Keys are tried in this order on the nested target, then on the outer value.
var idKeys = []string{"user_id", "id", "userId"}

// Resolve extracts the user identifier from v. The nested "user" object wins
// over the outer value; within each object the precedence of idKeys applies.
// The boolean is false when no non-empty identifier exists.
func Resolve(v any) (core.ID, bool) {
	outer, ok := asMap(v)
	if !ok {
		return "", false
	}
	if nested, ok := asMap(outer["user"]); ok {
		if id, ok := lookup(nested); ok {
			return id, true
		}
	}
	return lookup(outer)
}

// Numeric returns the numeric form of a resolved id, or nil when the id
// is absent or not numeric.
func Numeric(v any) *int64 {
	id, ok := Resolve(v)
	if !ok {
		return nil
	}
	return id.Ref()
}

func lookup(m map[string]any) (core.ID, bool) {
	for _, key := range idKeys {
		if id, ok := core.IDOf(m[key]); ok {
			return id, true
		}
	}
	return "", false
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}
