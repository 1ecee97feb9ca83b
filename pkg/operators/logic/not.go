package logic

import (
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var Not = operators.Definition{
	Name:        "_not",
	Description: "Negates the truthiness of its input.",
	Operator: operators.OperatorFunc(func(params operators.Params) (any, error) {
		return !utils.IsTruthy(params.Params), nil
	}),
}
