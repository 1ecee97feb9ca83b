package text

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegex(t *testing.T) {
	scope := operators.Scope{
		BlockID: "text2",
		Value:   "hello",
		State:   map[string]any{"text1": "a123", "user": map[string]any{"email": "A@B.io"}, "count": 12},
	}

	tests := []struct {
		name     string
		params   any
		expected bool
	}{
		{name: "pattern tests block value", params: "^hel", expected: true},
		{name: "pattern misses block value", params: "^bye", expected: false},
		{name: "key reads state", params: map[string]any{"pattern": "123", "key": "text1"}, expected: true},
		{name: "nested key", params: map[string]any{"pattern": "@b\\.io$", "key": "user.email", "flags": "i"}, expected: true},
		{name: "case sensitive without flag", params: map[string]any{"pattern": "@b\\.io$", "key": "user.email"}, expected: false},
		{name: "on value", params: map[string]any{"pattern": "^x", "on": "xyz"}, expected: true},
		{name: "non string never matches", params: map[string]any{"pattern": ".*", "key": "count"}, expected: false},
		{name: "missing key never matches", params: map[string]any{"pattern": ".*", "key": "nope"}, expected: false},
		{name: "global flag ignored", params: map[string]any{"pattern": "l+", "flags": "g"}, expected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := Regex.Operator.Evaluate(operators.Params{Operator: "_regex", Params: test.params, Scope: scope, Location: "text2"})
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Regex.Operator.Evaluate(operators.Params{Operator: "_regex", Params: "(", Scope: scope, Location: "text2"})
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := Regex.Operator.Evaluate(operators.Params{Operator: "_regex", Params: map[string]any{"pattern": "a", "flags": "y"}, Scope: scope, Location: "text2"})
		assert.Error(t, err)
	})

	t.Run("missing pattern", func(t *testing.T) {
		_, err := Regex.Operator.Evaluate(operators.Params{Operator: "_regex", Params: map[string]any{"key": "text1"}, Scope: scope, Location: "text2"})
		assert.Error(t, err)
	})
}

func TestString(t *testing.T) {
	tests := []struct {
		method   string
		params   any
		expected any
	}{
		{method: "concat", params: []any{"a", 1, true}, expected: "a1true"},
		{method: "upper", params: "abc", expected: "ABC"},
		{method: "lower", params: "ABC", expected: "abc"},
		{method: "trim", params: "  a ", expected: "a"},
		{method: "length", params: "héllo", expected: 5},
		{method: "startsWith", params: []any{"hello", "he"}, expected: true},
		{method: "endsWith", params: []any{"hello", "he"}, expected: false},
		{method: "includes", params: []any{"hello", "ll"}, expected: true},
		{method: "split", params: []any{"a,b", ","}, expected: []any{"a", "b"}},
		{method: "replace", params: []any{"a-b-c", "-", "+"}, expected: "a+b+c"},
	}

	for _, test := range tests {
		t.Run(test.method, func(t *testing.T) {
			result, err := String.Operator.Evaluate(operators.Params{Operator: "_string", Method: test.method, Params: test.params})
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}

	_, err := String.Operator.Evaluate(operators.Params{Operator: "_string", Method: "upper", Params: 1})
	assert.Error(t, err)
}
