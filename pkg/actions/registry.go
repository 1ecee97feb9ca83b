package actions

import (
	"fmt"
	"sort"
	"sync"
)

type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
	}
}

// Register adds an action type. A later registration of the same type replaces the earlier one.
func (r *Registry) Register(actionType string, action Action) error {
	if actionType == "" {
		return fmt.Errorf("action type is required")
	}
	if action == nil {
		return fmt.Errorf("action %q has no implementation", actionType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[actionType] = action

	return nil
}

func (r *Registry) MustRegister(actionType string, action Action) {
	if err := r.Register(actionType, action); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(actionType string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.actions[actionType]
	return action, ok
}

// Types returns the registered action types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.actions))
	for actionType := range r.actions {
		types = append(types, actionType)
	}
	sort.Strings(types)

	return types
}
