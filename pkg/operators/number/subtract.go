package number

import (
	"github.com/Ramsey-B/fern/pkg/operators"
)

var Subtract = operators.Definition{
	Name:        "_subtract",
	Description: "Subtracts the second of two numbers from the first.",
	Operator:    operators.OperatorFunc(subtract),
}

func subtract(params operators.Params) (any, error) {
	numbers, err := params.Numbers(2)
	if err != nil {
		return nil, err
	}

	return numbers[0] - numbers[1], nil
}
