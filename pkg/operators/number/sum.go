package number

import (
	"github.com/Ramsey-B/fern/pkg/operators"
)

var Sum = operators.Definition{
	Name:        "_sum",
	Description: "Adds a list of numbers. An empty list sums to 0.",
	Operator:    operators.OperatorFunc(sum),
}

func sum(params operators.Params) (any, error) {
	numbers, err := params.Numbers(-1)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, num := range numbers {
		total += num
	}

	return total, nil
}
