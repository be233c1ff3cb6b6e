package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"finboard/internal/core"
)

func TestFirstPrecedence(t *testing.T) {
	p := core.Payload{"name": nil, "budgetName": "", "budget_name": "snake"}

	v, ok := First(p, BudgetName...)
	assert.True(t, ok)
	assert.Equal(t, "", v, "an empty string is a defined value")

	v, ok = First(core.Payload{"title": "legacy"}, BudgetName...)
	assert.True(t, ok)
	assert.Equal(t, "legacy", v)

	_, ok = First(nil, "id")
	assert.False(t, ok)
}

func TestAmountCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"float", 12.5, "12.5"},
		{"json number", json.Number("-40.25"), "-40.25"},
		{"numeric string", " 100 ", "100"},
		{"garbage string", "abc", "0"},
		{"empty string", "", "0"},
		{"NaN", math.NaN(), "0"},
		{"infinity", math.Inf(1), "0"},
		{"object", map[string]any{"x": 1}, "0"},
		{"int", 7, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amount(core.Payload{"amount": tt.in}, "amount")
			assert.Equal(t, tt.want, got.String())
		})
	}
	assert.True(t, Amount(core.Payload{}, "amount").IsZero(), "missing amount is zero")
}

func TestRefCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *int64
	}{
		{"number", 3.0, core.Int64Ptr(3)},
		{"numeric string", "12", core.Int64Ptr(12)},
		{"empty string stays nil", "", nil},
		{"blank string stays nil", "   ", nil},
		{"non numeric stays nil", "abc", nil},
		{"fraction stays nil", 1.5, nil},
		{"zero is kept", 0, core.Int64Ptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ref(core.Payload{"categoryId": tt.in}, "categoryId"))
		})
	}
	assert.Nil(t, Ref(core.Payload{"categoryId": nil}, "categoryId"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "42", Text(core.Payload{"name": 42.0}, "", "name"))
	assert.Equal(t, "def", Text(core.Payload{"name": []any{"x"}}, "def", "name"))
	assert.Equal(t, "def", Text(core.Payload{}, "def", "name"))
}
