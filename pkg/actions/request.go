package actions

import (
	"context"
	"fmt"
)

// Request runs page requests by id. Params: a request id or a list of them.
var Request = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	var requestIDs []string

	switch typed := params.Params.(type) {
	case string:
		requestIDs = []string{typed}
	case []any:
		for _, item := range typed {
			requestID, ok := item.(string)
			if !ok {
				return Result{}, fmt.Errorf("Request takes a request id or a list of request ids, got %v", item)
			}
			requestIDs = append(requestIDs, requestID)
		}
	default:
		return Result{}, fmt.Errorf("Request takes a request id or a list of request ids, got %T", params.Params)
	}

	responses, err := params.Page.Request(ctx, requestIDs)
	if err != nil {
		return Result{}, err
	}

	return Ok(responses), nil
})
