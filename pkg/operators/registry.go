package operators

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

var operatorNamePattern = regexp.MustCompile(`^_[A-Za-z][A-Za-z0-9_]*$`)

type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
	}
}

// Register adds an operator. Registering a name twice replaces the earlier definition so hosts can
// override built-ins.
func (r *Registry) Register(definition Definition) error {
	if !operatorNamePattern.MatchString(definition.Name) {
		return fmt.Errorf("invalid operator name %q: names start with '_' followed by a letter", definition.Name)
	}
	if definition.Operator == nil {
		return fmt.Errorf("operator %q has no implementation", definition.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[definition.Name] = definition

	return nil
}

func (r *Registry) MustRegister(definitions ...Definition) {
	for _, definition := range definitions {
		if err := r.Register(definition); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	definition, ok := r.definitions[name]
	return definition, ok
}

// Definitions returns every registered operator sorted by name.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	definitions := make([]Definition, 0, len(r.definitions))
	for _, definition := range r.definitions {
		definitions = append(definitions, definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})

	return definitions
}
