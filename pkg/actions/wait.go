package actions

import (
	"context"
	"time"

	"github.com/Ramsey-B/fern/pkg/utils"
)

type waitArguments struct {
	Ms int `json:"ms" validate:"gte=0"`
}

// Wait pauses the chain for {ms} milliseconds or until the context is done.
var Wait = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	args, err := utils.ValidateArguments[waitArguments](params.Params)
	if err != nil {
		return Result{}, err
	}

	timer := time.NewTimer(time.Duration(args.Ms) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-timer.C:
		return Ok(nil), nil
	}
})
