package actions

import (
	"context"
	"errors"

	"github.com/Ramsey-B/fern/pkg/utils"
)

type throwArguments struct {
	Throw   any    `json:"throw"`
	Message string `json:"message"`
}

// Throw fails the step with message when throw is truthy.
var Throw = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	args, err := utils.ParseArguments[throwArguments](params.Params)
	if err != nil {
		return Result{}, err
	}

	if !utils.IsTruthy(args.Throw) {
		return Ok(nil), nil
	}

	message := args.Message
	if message == "" {
		message = "Action thrown"
	}
	return Result{}, errors.New(message)
})
