package logic

import (
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var Type = operators.Definition{
	Name:        "_type",
	Description: "Checks the type of a value. Takes a type name (tested against the block value) or {type, on}.",
	Operator:    operators.OperatorFunc(evaluateType),
}

type typeArguments struct {
	Type string `json:"type" validate:"required,oneof=string number boolean array object date null any"`
}

func evaluateType(params operators.Params) (any, error) {
	value := params.Scope.Value
	raw := params.Params

	if object, ok := params.Object(); ok {
		if on, ok := object["on"]; ok {
			value = on
		}
	} else {
		raw = map[string]any{"type": params.Params}
	}

	args, err := utils.ValidateArguments[typeArguments](raw)
	if err != nil {
		return nil, params.Error(err.Error())
	}

	return models.IsType(value, models.ValueType(args.Type)), nil
}
