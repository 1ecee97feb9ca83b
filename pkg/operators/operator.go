package operators

import (
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
)

// Params is what an operator receives when its node is evaluated. For eager operators Params holds the
// resolved params, lazy operators get the raw node and resolve what they need through Parse.
type Params struct {
	Operator string
	Method   string
	Params   any
	Location string
	Scope    Scope
	Parse    func(node any, location string) (any, error)
}

// Name is the key the operator was written with, e.g. `_string.upper`.
func (p Params) Name() string {
	if p.Method == "" {
		return p.Operator
	}
	return p.Operator + "." + p.Method
}

// ParamsLocation is the location of the operator's params, used when resolving lazy branches.
func (p Params) ParamsLocation() string {
	return joinKey(p.Location, p.Name())
}

func (p Params) Error(msg string) *fernerr.OperatorError {
	return fernerr.NewOperatorError(p.Name(), msg).AddReceived(p.Params).AddLocation(p.Location)
}

func (p Params) Errorf(format string, args ...any) *fernerr.OperatorError {
	return fernerr.NewOperatorErrorf(p.Name(), format, args...).AddReceived(p.Params).AddLocation(p.Location)
}

type Operator interface {
	Evaluate(params Params) (any, error)
}

type OperatorFunc func(params Params) (any, error)

func (f OperatorFunc) Evaluate(params Params) (any, error) {
	return f(params)
}

type Definition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Lazy        bool     `json:"lazy"`
	Methods     []string `json:"methods,omitempty"`
	Operator    Operator `json:"-"`
}

// RequiresMethod reports whether the operator is only usable in `_name.method` form.
func (d Definition) RequiresMethod() bool {
	return len(d.Methods) > 0
}
