package state

import (
	"github.com/Ramsey-B/fern/pkg/expressions"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var evaluator = expressions.NewEvaluator()

var JMESPath = operators.Definition{
	Name:        "_jmespath",
	Description: "Runs a JMESPath query: {expression, on}. Without on the query runs over page state.",
	Operator:    operators.OperatorFunc(jmespathQuery),
}

type jmespathArguments struct {
	Expression string `json:"expression" validate:"required"`
}

func jmespathQuery(params operators.Params) (any, error) {
	object, ok := params.Object()
	if !ok {
		return nil, params.Error("_jmespath takes an object as input")
	}

	args, err := utils.ValidateArguments[jmespathArguments](map[string]any{"expression": object["expression"]})
	if err != nil {
		return nil, params.Error(err.Error())
	}

	var data any = params.Scope.State
	if on, ok := object["on"]; ok {
		data = on
	}

	result, err := evaluator.Evaluate(args.Expression, data)
	if err != nil {
		return nil, params.Error(err.Error())
	}

	return result, nil
}
