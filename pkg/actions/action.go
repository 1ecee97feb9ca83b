package actions

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/operators"
)

// Action is one registered action type.
type Action interface {
	Run(ctx context.Context, params Params) (Result, error)
}

type ActionFunc func(ctx context.Context, params Params) (Result, error)

func (f ActionFunc) Run(ctx context.Context, params Params) (Result, error) {
	return f(ctx, params)
}

// Params is what an action receives for one step. Params holds the step's resolved params.
type Params struct {
	BlockID string
	StepID  string
	Event   string
	Params  any
	Args    map[string]any
	Page    Page
	Logger  ectologger.Logger
}

// Result reports the outcome of one step. A step fails when OK is false even without an error; Errors
// then describe the failure.
type Result struct {
	OK     bool
	Value  any
	Errors []string
}

func Ok(value any) Result {
	return Result{OK: true, Value: value}
}

func Fail(errs ...string) Result {
	return Result{OK: false, Errors: errs}
}

// Page is the part of a live page context actions work against.
type Page interface {
	ID() string
	PageID() string
	// Scope returns a snapshot of the operator bindings for blockID.
	Scope(blockID string) operators.Scope
	// ValidateBlocks raises validation display, re-evaluates and returns the number of validation
	// errors across blockIDs. Empty blockIDs means every input block.
	ValidateBlocks(blockIDs []string) (int, error)
	SetState(values map[string]any) error
	SetGlobal(values map[string]any) error
	Reset() error
	CallMethod(ctx context.Context, blockID, method string, args any) (any, error)
	Request(ctx context.Context, requestIDs []string) (map[string]any, error)
}

// CallOptions carries the payload of the triggering event and the arguments of the action chain.
type CallOptions struct {
	Event map[string]any `json:"event,omitempty"`
	Args  map[string]any `json:"args,omitempty"`
}
