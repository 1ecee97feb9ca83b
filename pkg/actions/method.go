package actions

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/utils"
)

type callMethodArguments struct {
	BlockID string `json:"blockId" validate:"required"`
	Method  string `json:"method" validate:"required"`
	Args    any    `json:"args"`
}

// CallMethod invokes a method registered on a block: {blockId, method, args}.
var CallMethod = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	args, err := utils.ValidateArguments[callMethodArguments](params.Params)
	if err != nil {
		return Result{}, err
	}

	value, err := params.Page.CallMethod(ctx, args.BlockID, args.Method, args.Args)
	if err != nil {
		return Result{}, err
	}

	return Ok(value), nil
})
