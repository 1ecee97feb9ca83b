package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyToType(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		s, err := AnyToType[string]("a")
		require.NoError(t, err)
		assert.Equal(t, "a", s)
	})

	t.Run("int to float", func(t *testing.T) {
		f, err := AnyToType[float64](3)
		require.NoError(t, err)
		assert.Equal(t, 3.0, f)
	})

	t.Run("typed slice to []any", func(t *testing.T) {
		items, err := AnyToType[[]any]([]string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, items)
	})

	t.Run("nil is zero", func(t *testing.T) {
		f, err := AnyToType[float64](nil)
		require.NoError(t, err)
		assert.Equal(t, 0.0, f)
	})

	t.Run("mismatch", func(t *testing.T) {
		_, err := AnyToType[float64]("3")
		assert.Error(t, err)

		_, err = AnyToType[string](65)
		assert.Error(t, err)
	})
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(uint8(2))
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)

	_, ok = ToFloat(true)
	assert.False(t, ok)
}

func TestValidateArguments(t *testing.T) {
	type args struct {
		Pattern string `json:"pattern" validate:"required"`
		Flags   string `json:"flags" validate:"omitempty,oneof=i m s"`
	}

	t.Run("valid map", func(t *testing.T) {
		parsed, err := ValidateArguments[args](map[string]any{"pattern": "12", "flags": "i"})
		require.NoError(t, err)
		assert.Equal(t, "12", parsed.Pattern)
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := ValidateArguments[args](map[string]any{"flags": "i"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "args.Pattern")
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := ParseArguments[args]([]any{1, 2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a valid")
	})
}

func TestGetPath(t *testing.T) {
	source := map[string]any{
		"text1": "init",
		"user": map[string]any{
			"addresses": []any{
				map[string]any{"city": "Paris"},
			},
		},
		"list": []any{"a", "b"},
	}

	tests := []struct {
		name  string
		path  string
		value any
		found bool
	}{
		{name: "top level", path: "text1", value: "init", found: true},
		{name: "nested with index", path: "user.addresses[0].city", value: "Paris", found: true},
		{name: "dotted index", path: "list.1", value: "b", found: true},
		{name: "bracket index", path: "list[0]", value: "a", found: true},
		{name: "out of range", path: "list[4]", found: false},
		{name: "missing", path: "user.name", found: false},
		{name: "malformed", path: "list[x]", found: false},
		{name: "through primitive", path: "text1.length", found: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			value, found := GetPath(source, test.path)
			assert.Equal(t, test.found, found)
			assert.Equal(t, test.value, value)
		})
	}

	t.Run("empty path returns the source", func(t *testing.T) {
		value, found := GetPath(source, "")
		assert.True(t, found)
		assert.Equal(t, source, value)
	})
}

func TestSplitPath(t *testing.T) {
	segments, err := SplitPath("a.b[0][1].c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "[0]", "[1]", "c"}, segments)

	_, err = SplitPath("a]")
	assert.ErrorIs(t, err, ErrMalformedIndex)
}

func TestAssignMapValue(t *testing.T) {
	target := map[string]any{"a": "scalar"}

	AssignMapValue(target, "b.c.d", 1)
	AssignMapValue(target, "a.x", true)
	AssignMapValue(target, "", "ignored")

	assert.Equal(t, map[string]any{
		"a": map[string]any{"x": true},
		"b": map[string]any{"c": map[string]any{"d": 1}},
	}, target)

	t.Run("list indexes", func(t *testing.T) {
		target := map[string]any{"list": []any{"a", "b"}}

		AssignMapValue(target, "list[0]", "x")
		AssignMapValue(target, "list.1", "y")
		AssignMapValue(target, "list[3].name", "z")
		AssignMapValue(target, "rows[1]", true)

		assert.Equal(t, []any{"x", "y", nil, map[string]any{"name": "z"}}, target["list"])
		assert.Equal(t, []any{nil, true}, target["rows"])
		assert.NotContains(t, target, "list[0]")

		value, found := GetPath(target, "list[3].name")
		assert.True(t, found)
		assert.Equal(t, "z", value)
	})

	t.Run("malformed paths are literal keys", func(t *testing.T) {
		target := map[string]any{}

		AssignMapValue(target, "list[x]", 1)
		AssignMapValue(target, "[0]", 2)
		AssignMapValue(target, "list[-1]", 3)

		assert.Equal(t, map[string]any{"list[x]": 1, "[0]": 2, "list[-1]": 3}, target)
	})
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value    any
		expected bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0, false},
		{0.0, false},
		{-1, true},
		{"", false},
		{"0", true},
		{[]any{}, true},
		{map[string]any{}, true},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsTruthy(test.value), "value %#v", test.value)
	}
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(""))
	assert.True(t, IsEmptyValue([]any{}))
	assert.False(t, IsEmptyValue(0))
	assert.False(t, IsEmptyValue(false))
	assert.False(t, IsEmptyValue("a"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "a", Stringify("a"))
	assert.Equal(t, "12", Stringify(12))
	assert.Equal(t, `{"a":[1,2]}`, Stringify(map[string]any{"a": []any{1, 2}}))
}

func TestDeepCopy(t *testing.T) {
	original := map[string]any{"a": []any{map[string]any{"b": 1}}}
	copied := DeepCopyMap(original)

	copied["a"].([]any)[0].(map[string]any)["b"] = 2
	assert.Equal(t, 1, original["a"].([]any)[0].(map[string]any)["b"])
	assert.Equal(t, map[string]any{}, DeepCopyMap(nil))
}
