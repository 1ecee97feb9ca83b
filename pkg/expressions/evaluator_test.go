package expressions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_Evaluate(t *testing.T) {
	evaluator := NewEvaluator()
	data := map[string]any{
		"users": []any{
			map[string]any{"name": "a", "age": 30},
			map[string]any{"name": "b", "age": 17},
		},
	}

	t.Run("projection", func(t *testing.T) {
		result, err := evaluator.Evaluate("users[].name", data)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, result)
	})

	t.Run("filter on yaml ints", func(t *testing.T) {
		result, err := evaluator.Evaluate("users[?age > `18`].name", data)
		require.NoError(t, err)
		assert.Equal(t, []any{"a"}, result)
	})

	t.Run("missing field", func(t *testing.T) {
		result, err := evaluator.Evaluate("nope", data)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := evaluator.Evaluate("users[", data)
		assert.Error(t, err)
		assert.Error(t, evaluator.Validate("users["))
	})
}
