package collection

import (
	"sort"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/operators"
)

var Object = operators.Definition{
	Name:        "_object",
	Description: "Object helpers: keys, values, hasKey, assign. Keys and values come back in sorted key order.",
	Methods:     []string{"keys", "values", "hasKey", "assign"},
	Operator:    operators.OperatorFunc(evaluateObject),
}

func evaluateObject(params operators.Params) (any, error) {
	switch params.Method {
	case "keys", "values":
		object, ok := params.Object()
		if !ok {
			return nil, params.Errorf("%s takes an object as input", params.Name())
		}
		keys := sortedKeys(object)
		if params.Method == "keys" {
			return ectolinq.Map(keys, func(key string) any { return key }), nil
		}
		return ectolinq.Map(keys, func(key string) any { return object[key] }), nil
	case "hasKey":
		first, second, err := params.Pair()
		if err != nil {
			return nil, err
		}
		object, ok := first.(map[string]any)
		key, isString := second.(string)
		if !ok || !isString {
			return nil, params.Error("_object.hasKey takes [object, key] as input")
		}
		_, found := object[key]
		return found, nil
	case "assign":
		items, ok := params.Array()
		if !ok {
			return nil, params.Error("_object.assign takes an array of objects as input")
		}
		merged := map[string]any{}
		for _, item := range items {
			object, ok := item.(map[string]any)
			if !ok {
				return nil, params.Error("_object.assign takes an array of objects as input")
			}
			for key, value := range object {
				merged[key] = value
			}
		}
		return merged, nil
	}

	return nil, params.Errorf("unsupported method %q", params.Method)
}

func sortedKeys(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
