package actions

import (
	"context"
	"fmt"
)

// SetState writes each path of the params object (`a.b`, `list[0]`) into page state.
var SetState = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	values, ok := params.Params.(map[string]any)
	if !ok {
		return Result{}, fmt.Errorf("SetState takes an object as params, got %T", params.Params)
	}

	if err := params.Page.SetState(values); err != nil {
		return Result{}, err
	}

	return Ok(values), nil
})

// SetGlobal writes each dotted path of the params object into global state.
var SetGlobal = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	values, ok := params.Params.(map[string]any)
	if !ok {
		return Result{}, fmt.Errorf("SetGlobal takes an object as params, got %T", params.Params)
	}

	if err := params.Page.SetGlobal(values); err != nil {
		return Result{}, err
	}

	return Ok(values), nil
})

// Reset restores the state the page context started with.
var Reset = ActionFunc(func(ctx context.Context, params Params) (Result, error) {
	if err := params.Page.Reset(); err != nil {
		return Result{}, err
	}
	return Ok(nil), nil
})
