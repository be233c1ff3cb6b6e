// Package normalize maps loosely shaped service payloads onto canonical
// records. Every field is resolved through an ordered alias table consulted
// by First; nothing in this package returns an error or panics.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// First returns the value of the first alias that is present with a non-nil
// value. Empty strings count as present.
func First(p core.Payload, aliases ...string) (any, bool) {
	if p == nil {
		return nil, false
	}
	for _, key := range aliases {
		if v, ok := p[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Text resolves a string field, falling back to def when no alias is set or
// the value is structured.
func Text(p core.Payload, def string, aliases ...string) string {
	v, ok := First(p, aliases...)
	if !ok {
		return def
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		return def
	default:
		return fmt.Sprint(x)
	}
}

// Amount resolves a numeric field. Missing values and values that do not
// coerce to a finite number yield zero.
func Amount(p core.Payload, aliases ...string) decimal.Decimal {
	v, ok := First(p, aliases...)
	if !ok {
		return decimal.Zero
	}
	d, ok := toDecimal(v)
	if !ok {
		return decimal.Zero
	}
	return d
}

// Ref resolves a nullable numeric identifier. Missing, blank or non-integral
// values stay nil; a blank string never becomes 0.
func Ref(p core.Payload, aliases ...string) *int64 {
	v, ok := First(p, aliases...)
	if !ok {
		return nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil
	}
	d, ok := toDecimal(v)
	if !ok || !d.IsInteger() {
		return nil
	}
	i := d.IntPart()
	return &i
}

// Identifier resolves an opaque identifier.
func Identifier(p core.Payload, aliases ...string) core.ID {
	v, ok := First(p, aliases...)
	if !ok {
		return ""
	}
	id, _ := core.IDOf(v)
	return id
}

// Date resolves a calendar date; see core.ParseDate.
func Date(p core.Payload, aliases ...string) core.Date {
	return core.ParseDate(Text(p, "", aliases...))
}

// Int resolves a whole number, defaulting to zero.
func Int(p core.Payload, aliases ...string) int64 {
	return Amount(p, aliases...).IntPart()
}

// Float resolves a plain float, defaulting to zero.
func Float(p core.Payload, aliases ...string) float64 {
	return Amount(p, aliases...).InexactFloat64()
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return toDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case uint:
		return decimal.NewFromInt(int64(x)), true
	case uint64:
		return decimal.NewFromInt(int64(x)), true
	case bool:
		if x {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	default:
		return decimal.Zero, false
	}
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
