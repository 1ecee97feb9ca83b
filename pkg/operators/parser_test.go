package operators_test

import (
	"errors"
	"testing"

	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/operators/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(scope operators.Scope) *operators.Parser {
	return operators.NewParser(builtin.NewRegistry(), scope)
}

func TestParser_NoOperators(t *testing.T) {
	documents := []any{
		nil,
		"text",
		12,
		true,
		[]any{1, "a", map[string]any{"b": []any{}}},
		map[string]any{
			"title": "Hello",
			"nested": map[string]any{
				"list": []any{map[string]any{"a": 1, "b": 2}},
				"_":    "underscore alone is data",
				"_1":   "so is underscore and digit",
			},
			"two": map[string]any{"_sum": []any{1}, "other": 1},
		},
	}

	parser := newParser(operators.Scope{})
	for _, document := range documents {
		resolved, err := parser.Parse(document, "root")
		require.NoError(t, err)
		assert.Equal(t, document, resolved)
	}
}

func TestParser_DoesNotMutateInput(t *testing.T) {
	document := map[string]any{
		"total": map[string]any{"_sum": []any{1, 2}},
		"list":  []any{map[string]any{"_divide": []any{6, 3}}},
	}

	resolved, err := newParser(operators.Scope{}).Parse(document, "root")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"total": 3.0, "list": []any{2.0}}, resolved)
	assert.Equal(t, map[string]any{"_sum": []any{1, 2}}, document["total"])
	assert.Equal(t, map[string]any{"_divide": []any{6, 3}}, document["list"].([]any)[0])
}

func TestParser_InnermostFirst(t *testing.T) {
	document := map[string]any{
		"_divide": []any{
			map[string]any{"_sum": []any{4, 6}},
			map[string]any{"_subtract": []any{7, 5}},
		},
	}

	resolved, err := newParser(operators.Scope{}).Parse(document, "root")
	require.NoError(t, err)
	assert.Equal(t, 5.0, resolved)
}

func TestParser_Divide(t *testing.T) {
	parser := newParser(operators.Scope{})

	t.Run("exact quotient", func(t *testing.T) {
		for _, pair := range [][2]float64{{1, 3}, {10, 4}, {-9, 3}, {0, 7}, {2.5, 0.5}} {
			resolved, err := parser.Parse(map[string]any{"_divide": []any{pair[0], pair[1]}}, "loc")
			require.NoError(t, err)
			assert.Equal(t, pair[0]/pair[1], resolved)
		}
	})

	t.Run("by zero", func(t *testing.T) {
		_, err := parser.Parse(map[string]any{"_divide": []any{1, 0}}, "locationId")

		var opErr *fernerr.OperatorError
		require.True(t, errors.As(err, &opErr))
		assert.Equal(t, "_divide", opErr.Operator)
		assert.Equal(t, "locationId", opErr.Location)
		assert.Equal(t, `Operator Error: _divide by zero not allowed. Received: {"_divide":[1,0]} at locationId.`, err.Error())
	})

	t.Run("shape errors", func(t *testing.T) {
		tests := []struct {
			params  any
			message string
		}{
			{params: 1, message: `Operator Error: _divide takes an array type as input. Received: {"_divide":1} at locationId.`},
			{params: []any{1}, message: `Operator Error: _divide takes an array of length 2 as input. Received: {"_divide":[1]} at locationId.`},
			{params: []any{1, "a"}, message: `Operator Error: _divide takes an array of 2 numbers. Received: {"_divide":[1,"a"]} at locationId.`},
		}

		for _, test := range tests {
			_, err := parser.Parse(map[string]any{"_divide": test.params}, "locationId")
			require.Error(t, err)
			assert.Equal(t, test.message, err.Error())
		}
	})
}

func TestParser_Location(t *testing.T) {
	document := map[string]any{
		"properties": map[string]any{
			"items": []any{
				"plain",
				map[string]any{"_divide": []any{1, map[string]any{"_subtract": []any{2, 2}}}},
			},
		},
	}

	_, err := newParser(operators.Scope{}).Parse(document, "text1")

	var opErr *fernerr.OperatorError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "text1.properties.items[1]", opErr.Location)

	nested := map[string]any{"_divide": []any{1, map[string]any{"_subtract": []any{2}}}}
	_, err = newParser(operators.Scope{}).Parse(nested, "a")
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "_subtract", opErr.Operator)
	assert.Equal(t, "a._divide[1]", opErr.Location)
}

func TestParser_OperatorNotFound(t *testing.T) {
	parser := newParser(operators.Scope{})

	t.Run("unknown name", func(t *testing.T) {
		_, err := parser.Parse(map[string]any{"a": map[string]any{"_nope": 1}}, "root")

		var notFound *fernerr.OperatorNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "_nope", notFound.Operator)
		assert.Equal(t, "root.a", notFound.Location)
	})

	t.Run("method operator without method", func(t *testing.T) {
		_, err := parser.Parse(map[string]any{"_string": "a"}, "root")

		var notFound *fernerr.OperatorNotFoundError
		require.True(t, errors.As(err, &notFound))
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := parser.Parse(map[string]any{"_string.shout": "a"}, "root")

		var notFound *fernerr.OperatorNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "_string.shout", notFound.Operator)
	})
}

func TestParser_LazyBranches(t *testing.T) {
	parser := newParser(operators.Scope{State: map[string]any{"flag": true}})

	document := map[string]any{
		"_if": map[string]any{
			"test": map[string]any{"_state": "flag"},
			"then": "yes",
			"else": map[string]any{"_divide": []any{1, 0}},
		},
	}

	resolved, err := parser.Parse(document, "root")
	require.NoError(t, err)
	assert.Equal(t, "yes", resolved)

	t.Run("or stops at first truthy item", func(t *testing.T) {
		resolved, err := parser.Parse(map[string]any{
			"_or": []any{true, map[string]any{"_divide": []any{1, 0}}},
		}, "root")
		require.NoError(t, err)
		assert.Equal(t, true, resolved)
	})

	t.Run("errors in taken branch carry branch location", func(t *testing.T) {
		_, err := parser.Parse(map[string]any{
			"_if": map[string]any{
				"test": false,
				"else": map[string]any{"_divide": []any{1, 0}},
			},
		}, "root")

		var opErr *fernerr.OperatorError
		require.True(t, errors.As(err, &opErr))
		assert.Equal(t, "root._if.else", opErr.Location)
	})
}

func TestParser_Check(t *testing.T) {
	parser := newParser(operators.Scope{})

	assert.NoError(t, parser.Check(map[string]any{
		"a": map[string]any{"_if": map[string]any{"test": true, "then": map[string]any{"_string.upper": "x"}}},
	}, "root"))

	err := parser.Check(map[string]any{
		"_if": map[string]any{"test": true, "then": 1, "else": map[string]any{"_missing": 1}},
	}, "root")

	var notFound *fernerr.OperatorNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "root._if.else", notFound.Location)
}

func TestParser_WrapsPlainErrors(t *testing.T) {
	registry := builtin.NewRegistry()
	require.NoError(t, registry.Register(operators.Definition{
		Name: "_fail",
		Operator: operators.OperatorFunc(func(params operators.Params) (any, error) {
			return nil, errors.New("boom")
		}),
	}))

	_, err := operators.NewParser(registry, operators.Scope{}).Parse(map[string]any{"x": map[string]any{"_fail": 1}}, "root")

	var opErr *fernerr.OperatorError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "root.x", opErr.Location)
	assert.Equal(t, "boom", opErr.Message)
}

func TestRegistry(t *testing.T) {
	registry := operators.NewRegistry()
	noop := operators.OperatorFunc(func(params operators.Params) (any, error) { return nil, nil })

	assert.Error(t, registry.Register(operators.Definition{Name: "missing_prefix", Operator: noop}))
	assert.Error(t, registry.Register(operators.Definition{Name: "_1", Operator: noop}))
	assert.Error(t, registry.Register(operators.Definition{Name: "_nil"}))
	require.NoError(t, registry.Register(operators.Definition{Name: "_b", Operator: noop}))
	require.NoError(t, registry.Register(operators.Definition{Name: "_a", Operator: noop}))

	names := []string{}
	for _, definition := range registry.Definitions() {
		names = append(names, definition.Name)
	}
	assert.Equal(t, []string{"_a", "_b"}, names)

	_, ok := registry.Get("_c")
	assert.False(t, ok)
}

func TestIsOperatorNode(t *testing.T) {
	assert.True(t, operators.IsOperatorNode(map[string]any{"_state": "a"}))
	assert.False(t, operators.IsOperatorNode(map[string]any{"_state": "a", "b": 1}))
	assert.False(t, operators.IsOperatorNode(map[string]any{"state": "a"}))
	assert.False(t, operators.IsOperatorNode("a"))
}
