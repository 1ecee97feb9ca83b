package number

import (
	"github.com/Ramsey-B/fern/pkg/operators"
)

var Divide = operators.Definition{
	Name:        "_divide",
	Description: "Divides the first of two numbers by the second. Division by zero is an error.",
	Operator:    operators.OperatorFunc(divide),
}

func divide(params operators.Params) (any, error) {
	numbers, err := params.Numbers(2)
	if err != nil {
		return nil, err
	}

	if numbers[1] == 0 {
		return nil, params.Error("_divide by zero not allowed")
	}

	return numbers[0] / numbers[1], nil
}
