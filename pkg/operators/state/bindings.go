package state

import (
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var (
	State    = binding("_state", "Reads page state.", func(s operators.Scope) map[string]any { return s.State })
	Global   = binding("_global", "Reads app global state.", func(s operators.Scope) map[string]any { return s.Global })
	Input    = binding("_input", "Reads the input the page context was created with.", func(s operators.Scope) map[string]any { return s.Input })
	Args     = binding("_args", "Reads arguments passed to the running action chain.", func(s operators.Scope) map[string]any { return s.Args })
	Event    = binding("_event", "Reads the payload of the event being handled.", func(s operators.Scope) map[string]any { return s.Event })
	Actions  = binding("_actions", "Reads results of earlier steps in the running action chain, keyed by step id.", func(s operators.Scope) map[string]any { return s.Actions })
	Requests = binding("_request", "Reads request responses, keyed by request id.", func(s operators.Scope) map[string]any { return s.Requests })
)

type bindingArguments struct {
	Key string `json:"key" validate:"required"`
}

// binding builds a read operator over one scope map. Params are a dotted path, true for the whole
// map, or {key, default}.
func binding(name, description string, source func(operators.Scope) map[string]any) operators.Definition {
	return operators.Definition{
		Name:        name,
		Description: description,
		Operator: operators.OperatorFunc(func(params operators.Params) (any, error) {
			data := source(params.Scope)

			switch typed := params.Params.(type) {
			case bool:
				if typed {
					return utils.DeepCopyMap(data), nil
				}
			case string:
				value, _ := utils.GetPath(data, typed)
				return utils.DeepCopy(value), nil
			case map[string]any:
				args, err := utils.ValidateArguments[bindingArguments](typed)
				if err != nil {
					return nil, params.Error(err.Error())
				}
				value, ok := utils.GetPath(data, args.Key)
				if !ok || value == nil {
					return utils.DeepCopy(typed["default"]), nil
				}
				return utils.DeepCopy(value), nil
			}

			return nil, params.Errorf("%s takes a string, true or {key, default} as input", name)
		}),
	}
}
