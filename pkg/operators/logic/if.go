package logic

import (
	"github.com/Ramsey-B/fern/pkg/operators"
)

var If = operators.Definition{
	Name:        "_if",
	Description: "Returns then when test is true, else otherwise. Only the taken branch is evaluated.",
	Lazy:        true,
	Operator:    operators.OperatorFunc(evaluateIf),
}

func evaluateIf(params operators.Params) (any, error) {
	raw, ok := params.Object()
	if !ok {
		return nil, params.Error("_if takes an object as input")
	}

	location := params.ParamsLocation()
	test, err := params.Parse(raw["test"], location+".test")
	if err != nil {
		return nil, err
	}

	condition, ok := test.(bool)
	if !ok {
		return nil, params.Error("_if takes a boolean type for parameter test")
	}

	if condition {
		return params.Parse(raw["then"], location+".then")
	}
	return params.Parse(raw["else"], location+".else")
}
