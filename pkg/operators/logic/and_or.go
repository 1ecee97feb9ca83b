package logic

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var And = operators.Definition{
	Name:        "_and",
	Description: "True when every item is truthy. Stops at the first falsy item.",
	Lazy:        true,
	Operator:    operators.OperatorFunc(func(params operators.Params) (any, error) { return shortCircuit(params, false) }),
}

var Or = operators.Definition{
	Name:        "_or",
	Description: "True when any item is truthy. Stops at the first truthy item.",
	Lazy:        true,
	Operator:    operators.OperatorFunc(func(params operators.Params) (any, error) { return shortCircuit(params, true) }),
}

// shortCircuit evaluates items in order until one has truthiness stopOn.
func shortCircuit(params operators.Params, stopOn bool) (any, error) {
	items, ok := params.Params.([]any)
	if !ok {
		return nil, params.Errorf("%s takes an array type as input", params.Name())
	}

	location := params.ParamsLocation()
	for i, item := range items {
		value, err := params.Parse(item, fmt.Sprintf("%s[%d]", location, i))
		if err != nil {
			return nil, err
		}
		if utils.IsTruthy(value) == stopOn {
			return stopOn, nil
		}
	}

	return !stopOn, nil
}
