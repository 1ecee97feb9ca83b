package collection

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray(t *testing.T) {
	tests := []struct {
		method   string
		params   any
		expected any
	}{
		{method: "length", params: []any{1, 2, 3}, expected: 3},
		{method: "includes", params: []any{[]any{1, 2}, 2.0}, expected: true},
		{method: "indexOf", params: []any{[]any{"a", "b"}, "c"}, expected: -1},
		{method: "concat", params: []any{[]any{1}, []any{2, 3}}, expected: []any{1, 2, 3}},
		{method: "slice", params: []any{[]any{1, 2, 3, 4}, 1, 3}, expected: []any{2, 3}},
		{method: "slice", params: []any{[]any{1, 2, 3, 4}, -2}, expected: []any{3, 4}},
		{method: "reverse", params: []any{1, 2, 3}, expected: []any{3, 2, 1}},
		{method: "distinct", params: []any{1, 1.0, "1", 2}, expected: []any{1, "1", 2}},
		{method: "join", params: []any{[]any{"a", 1}, "-"}, expected: "a-1"},
	}

	for _, test := range tests {
		t.Run(test.method, func(t *testing.T) {
			result, err := Array.Operator.Evaluate(operators.Params{Operator: "_array", Method: test.method, Params: test.params})
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}

	_, err := Array.Operator.Evaluate(operators.Params{Operator: "_array", Method: "length", Params: "abc"})
	assert.Error(t, err)
}

func TestObject(t *testing.T) {
	object := map[string]any{"b": 2, "a": 1}

	tests := []struct {
		method   string
		params   any
		expected any
	}{
		{method: "keys", params: object, expected: []any{"a", "b"}},
		{method: "values", params: object, expected: []any{1, 2}},
		{method: "hasKey", params: []any{object, "a"}, expected: true},
		{method: "assign", params: []any{object, map[string]any{"b": 3, "c": 4}}, expected: map[string]any{"a": 1, "b": 3, "c": 4}},
	}

	for _, test := range tests {
		t.Run(test.method, func(t *testing.T) {
			result, err := Object.Operator.Evaluate(operators.Params{Operator: "_object", Method: test.method, Params: test.params})
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}

	assert.Equal(t, 2, object["b"])
}

func TestJSON(t *testing.T) {
	result, err := JSON.Operator.Evaluate(operators.Params{Operator: "_json", Method: "stringify", Params: map[string]any{"a": []any{1}}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1]}`, result)

	result, err = JSON.Operator.Evaluate(operators.Params{Operator: "_json", Method: "parse", Params: `{"a":[1]}`})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{1.0}}, result)

	_, err = JSON.Operator.Evaluate(operators.Params{Operator: "_json", Method: "parse", Params: `{`})
	assert.Error(t, err)
}
