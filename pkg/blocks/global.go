package blocks

import (
	"sync"

	"github.com/Ramsey-B/fern/pkg/utils"
)

// Global is app-wide state shared by every context of an app.
type Global struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewGlobal(values map[string]any) *Global {
	return &Global{values: utils.DeepCopyMap(values)}
}

// Values returns a copy of the global state.
func (g *Global) Values() map[string]any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return utils.DeepCopyMap(g.values)
}

// Set writes each dotted path of values.
func (g *Global) Set(values map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, value := range values {
		utils.AssignMapValue(g.values, key, utils.DeepCopy(value))
	}
}
