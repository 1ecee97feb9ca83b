package actions

import (
	"context"
	"fmt"
)

// Validate shows validation errors for the targeted blocks and fails when any of them has errors.
// Params: a block id, a list of block ids, or nothing for every input block.
var Validate = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	blockIDs, err := blockIDList(params.Params)
	if err != nil {
		return Result{}, err
	}

	count, err := params.Page.ValidateBlocks(blockIDs)
	if err != nil {
		return Result{}, err
	}

	if count > 0 {
		return Fail(fmt.Sprintf("Your input has %d validation error(s).", count)), nil
	}

	return Ok(nil), nil
})

func blockIDList(params any) ([]string, error) {
	switch typed := params.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{typed}, nil
	case []any:
		blockIDs := make([]string, 0, len(typed))
		for _, item := range typed {
			blockID, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("Validate takes a block id or a list of block ids, got %v", item)
			}
			blockIDs = append(blockIDs, blockID)
		}
		return blockIDs, nil
	case []string:
		return typed, nil
	}

	return nil, fmt.Errorf("Validate takes a block id or a list of block ids, got %T", params)
}
