package state

import (
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var Get = operators.Definition{
	Name:        "_get",
	Description: "Reads a dotted path from a value: {from, key, default}.",
	Operator:    operators.OperatorFunc(get),
}

type getArguments struct {
	Key string `json:"key" validate:"required"`
}

func get(params operators.Params) (any, error) {
	object, ok := params.Object()
	if !ok {
		return nil, params.Error("_get takes an object as input")
	}

	args, err := utils.ValidateArguments[getArguments](map[string]any{"key": object["key"]})
	if err != nil {
		return nil, params.Error(err.Error())
	}

	value, found := utils.GetPath(object["from"], args.Key)
	if !found || value == nil {
		return object["default"], nil
	}

	return value, nil
}
