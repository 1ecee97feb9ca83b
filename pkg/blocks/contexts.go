package blocks

import (
	"sort"
	"sync"

	"github.com/Ramsey-B/fern/pkg/metrics"
)

// Contexts holds the live page contexts by id.
type Contexts struct {
	mu       sync.RWMutex
	contexts map[string]*Context
}

func NewContexts() *Contexts {
	return &Contexts{
		contexts: make(map[string]*Context),
	}
}

func (c *Contexts) Add(pageContext *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.contexts[pageContext.ID()] = pageContext
	metrics.ContextsActive.Set(float64(len(c.contexts)))
}

func (c *Contexts) Get(contextID string) (*Context, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pageContext, ok := c.contexts[contextID]
	return pageContext, ok
}

// Delete drops a context. In-flight action calls on it still run to completion.
func (c *Contexts) Delete(contextID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.contexts[contextID]; !ok {
		return false
	}
	delete(c.contexts, contextID)
	metrics.ContextsActive.Set(float64(len(c.contexts)))

	return true
}

// IDs returns the live context ids, sorted.
func (c *Contexts) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.contexts))
	for id := range c.contexts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
