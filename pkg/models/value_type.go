package models

import (
	"reflect"
	"time"
)

type ValueType string

const (
	ValueTypeString ValueType = "string"
	ValueTypeNumber ValueType = "number"
	ValueTypeBool   ValueType = "boolean"
	ValueTypeArray  ValueType = "array"
	ValueTypeObject ValueType = "object"
	ValueTypeDate   ValueType = "date"
	ValueTypeAny    ValueType = "any"
	ValueTypeNull   ValueType = "null"
)

func IsType(value any, expectedType ValueType) bool {
	switch expectedType {
	case ValueTypeAny:
		return true
	case ValueTypeNull:
		return value == nil
	case ValueTypeString:
		_, ok := value.(string)
		return ok
	case ValueTypeNumber:
		if value == nil {
			return false
		}
		return isNumericKind(reflect.ValueOf(value).Kind())
	case ValueTypeBool:
		_, ok := value.(bool)
		return ok
	case ValueTypeArray:
		if _, ok := value.([]any); ok {
			return true
		}
		// Use reflection to check for any slice type ([]string, []int, etc.)
		rv := reflect.ValueOf(value)
		return rv.Kind() == reflect.Slice
	case ValueTypeObject:
		_, ok := value.(map[string]any)
		return ok
	case ValueTypeDate:
		_, ok := value.(time.Time)
		return ok
	}
	return false
}

// GetValueType reports the value type of a decoded document value.
func GetValueType(input any) ValueType {
	if input == nil {
		return ValueTypeNull
	}

	for _, t := range []ValueType{ValueTypeString, ValueTypeNumber, ValueTypeBool, ValueTypeObject, ValueTypeDate, ValueTypeArray} {
		if IsType(input, t) {
			return t
		}
	}

	return ValueTypeAny
}

// GetDefault returns the initial value of an input block holding the given type.
func GetDefault(valueType ValueType) any {
	switch valueType {
	case ValueTypeString:
		return ""
	case ValueTypeBool:
		return false
	case ValueTypeArray:
		return []any{}
	case ValueTypeObject:
		return map[string]any{}
	}

	// numbers and dates start unset
	return nil
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
