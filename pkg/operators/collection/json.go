package collection

import (
	"encoding/json"

	"github.com/Ramsey-B/fern/pkg/operators"
)

var JSON = operators.Definition{
	Name:        "_json",
	Description: "JSON helpers: stringify, parse.",
	Methods:     []string{"stringify", "parse"},
	Operator:    operators.OperatorFunc(evaluateJSON),
}

func evaluateJSON(params operators.Params) (any, error) {
	switch params.Method {
	case "stringify":
		b, err := json.Marshal(params.Params)
		if err != nil {
			return nil, params.Error(err.Error())
		}
		return string(b), nil
	case "parse":
		s, err := params.String()
		if err != nil {
			return nil, err
		}
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return nil, params.Errorf("invalid JSON: %s", err.Error())
		}
		return parsed, nil
	}

	return nil, params.Errorf("unsupported method %q", params.Method)
}
