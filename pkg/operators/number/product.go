package number

import (
	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/operators"
)

var Product = operators.Definition{
	Name:        "_product",
	Description: "Multiplies a list of numbers.",
	Operator:    operators.OperatorFunc(product),
}

func product(params operators.Params) (any, error) {
	numbers, err := params.Numbers(-1)
	if err != nil {
		return nil, err
	}

	if len(numbers) == 0 {
		return nil, params.Error("_product takes a non-empty array of numbers")
	}

	result := ectolinq.First(numbers)
	for _, num := range numbers[1:] {
		result *= num
	}

	return result, nil
}
