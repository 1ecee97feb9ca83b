package operators

// Scope holds the bindings operators can read. Operators must treat every map as read-only.
type Scope struct {
	BlockID  string
	Value    any
	State    map[string]any
	Global   map[string]any
	Input    map[string]any
	Args     map[string]any
	Event    map[string]any
	Actions  map[string]any
	Requests map[string]any
}

// WithBlock returns a copy of the scope bound to one block and its value.
func (s Scope) WithBlock(blockID string, value any) Scope {
	s.BlockID = blockID
	s.Value = value
	return s
}

// WithActions returns a copy of the scope exposing the results of earlier action steps.
func (s Scope) WithActions(actions map[string]any) Scope {
	s.Actions = actions
	return s
}

func (s Scope) WithEvent(event map[string]any) Scope {
	s.Event = event
	return s
}
