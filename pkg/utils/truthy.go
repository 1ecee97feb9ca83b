package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// IsTruthy follows document truthiness: nil, false, zero numbers and the empty string are falsy,
// everything else (including empty lists and maps) is truthy.
func IsTruthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	}

	if num, ok := ToFloat(value); ok {
		return num != 0
	}

	return true
}

// IsEmptyValue reports whether an input value should count as missing for required checks.
func IsEmptyValue(value any) bool {
	if value == nil {
		return true
	}

	switch typed := value.(type) {
	case string:
		return typed == ""
	case bool, float32, float64, int, int64:
		return false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}

	return false
}

// Stringify renders a value for messages. Strings pass through, everything else is JSON encoded.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(b)
}

// DeepCopy copies maps and slices of decoded document data so callers can't alias internal state.
func DeepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(typed))
		for key, item := range typed {
			copied[key] = DeepCopy(item)
		}
		return copied
	case []any:
		copied := make([]any, len(typed))
		for i, item := range typed {
			copied[i] = DeepCopy(item)
		}
		return copied
	}

	return value
}

// DeepCopyMap is DeepCopy for the common map case. A nil map copies to an empty map.
func DeepCopyMap(value map[string]any) map[string]any {
	if value == nil {
		return map[string]any{}
	}
	return DeepCopy(value).(map[string]any)
}
