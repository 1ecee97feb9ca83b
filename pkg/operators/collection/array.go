package collection

import (
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/operators/logic"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var Array = operators.Definition{
	Name:        "_array",
	Description: "Array helpers: length, includes, concat, slice, reverse, indexOf, distinct, join.",
	Methods:     []string{"length", "includes", "concat", "slice", "reverse", "indexOf", "distinct", "join"},
	Operator:    operators.OperatorFunc(evaluateArray),
}

func evaluateArray(params operators.Params) (any, error) {
	switch params.Method {
	case "length":
		items, err := list(params, params.Params)
		if err != nil {
			return nil, err
		}
		return len(items), nil
	case "reverse":
		items, err := list(params, params.Params)
		if err != nil {
			return nil, err
		}
		reversed := make([]any, len(items))
		for i, item := range items {
			reversed[len(items)-1-i] = item
		}
		return reversed, nil
	case "distinct":
		items, err := list(params, params.Params)
		if err != nil {
			return nil, err
		}
		distinct := []any{}
		for _, item := range items {
			if indexOf(distinct, item) == -1 {
				distinct = append(distinct, item)
			}
		}
		return distinct, nil
	case "includes", "indexOf":
		first, second, err := params.Pair()
		if err != nil {
			return nil, err
		}
		items, err := list(params, first)
		if err != nil {
			return nil, err
		}
		index := indexOf(items, second)
		if params.Method == "includes" {
			return index != -1, nil
		}
		return index, nil
	case "concat":
		lists, ok := params.Array()
		if !ok {
			return nil, params.Error("_array.concat takes an array of arrays as input")
		}
		merged := []any{}
		for _, entry := range lists {
			items, err := list(params, entry)
			if err != nil {
				return nil, err
			}
			merged = append(merged, items...)
		}
		return merged, nil
	case "join":
		first, second, err := params.Pair()
		if err != nil {
			return nil, err
		}
		items, err := list(params, first)
		if err != nil {
			return nil, err
		}
		separator, ok := second.(string)
		if !ok {
			return nil, params.Error("_array.join takes a string separator")
		}
		return strings.Join(ectolinq.Map(items, utils.Stringify), separator), nil
	case "slice":
		return slice(params)
	}

	return nil, params.Errorf("unsupported method %q", params.Method)
}

// slice takes [array, start] or [array, start, end]. Negative bounds count from the end.
func slice(params operators.Params) (any, error) {
	args, ok := params.Array()
	if !ok || len(args) < 2 || len(args) > 3 {
		return nil, params.Error("_array.slice takes [array, start, end?] as input")
	}

	items, err := list(params, args[0])
	if err != nil {
		return nil, err
	}

	bounds := []int{0, len(items)}
	for i, raw := range args[1:] {
		num, ok := utils.ToFloat(raw)
		if !ok {
			return nil, params.Error("_array.slice takes numeric bounds")
		}
		bound := int(num)
		if bound < 0 {
			bound += len(items)
		}
		bounds[i] = min(max(bound, 0), len(items))
	}

	if bounds[0] >= bounds[1] {
		return []any{}, nil
	}
	return append([]any{}, items[bounds[0]:bounds[1]]...), nil
}

func list(params operators.Params, value any) ([]any, error) {
	if value == nil {
		return nil, params.Errorf("%s takes an array type as input", params.Name())
	}
	items, err := utils.AnyToType[[]any](value)
	if err != nil {
		return nil, params.Errorf("%s takes an array type as input", params.Name())
	}
	return items, nil
}

func indexOf(items []any, target any) int {
	for i, item := range items {
		if logic.Equal(item, target) {
			return i
		}
	}
	return -1
}
