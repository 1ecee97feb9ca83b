package number

import (
	"math"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var Math = operators.Definition{
	Name:        "_math",
	Description: "Math helpers: abs, ceil, floor, round, max, min, pow, sqrt.",
	Methods:     []string{"abs", "ceil", "floor", "round", "max", "min", "pow", "sqrt"},
	Operator:    operators.OperatorFunc(evaluateMath),
}

type roundArguments struct {
	On        *float64 `json:"on" validate:"required"`
	Precision int      `json:"precision" validate:"gte=0,lte=15"`
}

func evaluateMath(params operators.Params) (any, error) {
	switch params.Method {
	case "abs":
		return unary(params, math.Abs)
	case "ceil":
		return unary(params, math.Ceil)
	case "floor":
		return unary(params, math.Floor)
	case "sqrt":
		num, err := params.Number()
		if err != nil {
			return nil, err
		}
		if num < 0 {
			return nil, params.Error("_math.sqrt takes a non-negative number")
		}
		return math.Sqrt(num), nil
	case "round":
		return round(params)
	case "pow":
		numbers, err := params.Numbers(2)
		if err != nil {
			return nil, err
		}
		return math.Pow(numbers[0], numbers[1]), nil
	case "max", "min":
		numbers, err := params.Numbers(-1)
		if err != nil {
			return nil, err
		}
		if len(numbers) == 0 {
			return nil, params.Errorf("%s takes a non-empty array of numbers", params.Name())
		}
		pick := math.Max
		if params.Method == "min" {
			pick = math.Min
		}
		result := ectolinq.First(numbers)
		for _, num := range numbers[1:] {
			result = pick(result, num)
		}
		return result, nil
	}

	return nil, params.Errorf("unsupported method %q", params.Method)
}

func unary(params operators.Params, fn func(float64) float64) (any, error) {
	num, err := params.Number()
	if err != nil {
		return nil, err
	}
	return fn(num), nil
}

// round accepts a number or {on, precision}.
func round(params operators.Params) (any, error) {
	if num, ok := utils.ToFloat(params.Params); ok {
		return math.Round(num), nil
	}

	args, err := utils.ValidateArguments[roundArguments](params.Params)
	if err != nil {
		return nil, params.Error(err.Error())
	}

	factor := math.Pow(10, float64(args.Precision))
	return math.Round(*args.On*factor) / factor, nil
}
