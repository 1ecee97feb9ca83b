package builtin

import (
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/operators/collection"
	"github.com/Ramsey-B/fern/pkg/operators/logic"
	"github.com/Ramsey-B/fern/pkg/operators/number"
	"github.com/Ramsey-B/fern/pkg/operators/state"
	"github.com/Ramsey-B/fern/pkg/operators/text"
)

// Definitions is the baseline operator set.
var Definitions = []operators.Definition{
	// number
	number.Sum,
	number.Subtract,
	number.Product,
	number.Divide,
	number.Math,

	// text
	text.Regex,
	text.String,

	// logic
	logic.If,
	logic.And,
	logic.Or,
	logic.Not,
	logic.Eq,
	logic.Ne,
	logic.Gt,
	logic.Gte,
	logic.Lt,
	logic.Lte,
	logic.Type,

	// state
	state.State,
	state.Global,
	state.Input,
	state.Args,
	state.Event,
	state.Actions,
	state.Requests,
	state.Get,
	state.JMESPath,

	// collection
	collection.Array,
	collection.Object,
	collection.JSON,
}

// NewRegistry returns a registry holding the baseline operators. Hosts may register more on top.
func NewRegistry() *operators.Registry {
	registry := operators.NewRegistry()
	registry.MustRegister(Definitions...)
	return registry
}
