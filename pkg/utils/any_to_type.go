package utils

import (
	"fmt"
	"reflect"
)

func AnyToType[T any](input any) (T, error) {
	var zero T
	if input == nil {
		return zero, nil
	}

	if result, ok := input.(T); ok {
		return result, nil
	}

	targetType := reflect.TypeOf(zero)
	// T is an interface, nothing to convert to
	if targetType == nil {
		return zero, fmt.Errorf("type mismatch: expected %T, got %T", zero, input)
	}

	inputValue := reflect.ValueOf(input)

	// any slice converts to []any
	if targetType == reflect.TypeOf([]any{}) && inputValue.Kind() == reflect.Slice {
		result := make([]any, inputValue.Len())
		for i := 0; i < inputValue.Len(); i++ {
			result[i] = inputValue.Index(i).Interface()
		}
		if converted, ok := any(result).(T); ok {
			return converted, nil
		}
	}

	// Numeric conversions only (avoid surprising conversions like int -> string (rune)).
	if IsNumber(input) && isNumericKind(targetType.Kind()) && inputValue.Type().ConvertibleTo(targetType) {
		converted := inputValue.Convert(targetType)
		if result, ok := converted.Interface().(T); ok {
			return result, nil
		}
	}

	return zero, fmt.Errorf("type mismatch: expected %T, got %T", zero, input)
}

// IsNumber reports whether the value holds any Go numeric kind. Documents decoded from YAML carry ints,
// documents decoded from JSON carry float64.
func IsNumber(input any) bool {
	if input == nil {
		return false
	}
	return isNumericKind(reflect.ValueOf(input).Kind())
}

// ToFloat converts a numeric value to float64.
func ToFloat(input any) (float64, bool) {
	if !IsNumber(input) {
		return 0, false
	}

	num, err := AnyToType[float64](input)
	return num, err == nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
