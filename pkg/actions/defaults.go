package actions

import (
	"github.com/Ramsey-B/fern/pkg/events"
)

// DefaultRegistry returns a registry holding the built-in actions. producer may be nil, Publish then
// fails when run.
func DefaultRegistry(producer events.RawPublisher) *Registry {
	registry := NewRegistry()
	registry.MustRegister("Validate", Validate)
	registry.MustRegister("SetState", SetState)
	registry.MustRegister("SetGlobal", SetGlobal)
	registry.MustRegister("Reset", Reset)
	registry.MustRegister("CallMethod", CallMethod)
	registry.MustRegister("Request", Request)
	registry.MustRegister("Wait", Wait)
	registry.MustRegister("Throw", Throw)
	registry.MustRegister("Publish", NewPublish(producer))
	return registry
}
