package connections

import (
	"context"
	"fmt"
	"sort"
	"sync"

	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Request is one resolved page request on its way to a resolver.
type Request struct {
	RequestID  string
	Type       string
	Connection models.ConnectionDefinition
	Payload    any
	Clients    Clients
}

// Resolver executes one request type against a connection.
type Resolver interface {
	// Validate checks the resolved payload against the resolver's schema.
	Validate(payload any) error
	CheckRead() bool
	CheckWrite() bool
	Resolve(ctx context.Context, request Request) (any, error)
}

type Handler[T any] func(ctx context.Context, request Request, payload T) (any, error)

type typedResolver[T any] struct {
	read   bool
	write  bool
	handle Handler[T]
}

// NewResolver builds a resolver whose payload schema is T, checked with validate tags.
func NewResolver[T any](read, write bool, handle func(ctx context.Context, request Request, payload T) (any, error)) Resolver {
	return &typedResolver[T]{read: read, write: write, handle: handle}
}

func (r *typedResolver[T]) Validate(payload any) error {
	if _, err := utils.ValidateArguments[T](payload); err != nil {
		return fernerr.NewConfigurationError(err.Error())
	}
	return nil
}

func (r *typedResolver[T]) CheckRead() bool {
	return r.read
}

func (r *typedResolver[T]) CheckWrite() bool {
	return r.write
}

func (r *typedResolver[T]) Resolve(ctx context.Context, request Request) (any, error) {
	payload, err := utils.ValidateArguments[T](request.Payload)
	if err != nil {
		return nil, fernerr.NewConfigurationError(err.Error())
	}
	return r.handle(ctx, request, payload)
}

type registration struct {
	connectionType string
	resolver       Resolver
}

// Registry maps request types to their resolver and the connection type they run on.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]registration
}

func NewRegistry() *Registry {
	return &Registry{resolvers: map[string]registration{}}
}

func (r *Registry) Register(connectionType, requestType string, resolver Resolver) error {
	if connectionType == "" || requestType == "" {
		return fmt.Errorf("connection type and request type are required")
	}
	if resolver == nil {
		return fmt.Errorf("resolver %s has no implementation", requestType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[requestType] = registration{connectionType: connectionType, resolver: resolver}
	return nil
}

func (r *Registry) MustRegister(connectionType, requestType string, resolver Resolver) {
	if err := r.Register(connectionType, requestType, resolver); err != nil {
		panic(err)
	}
}

// Get returns the resolver for requestType and the connection type it needs.
func (r *Registry) Get(requestType string) (Resolver, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	registered, ok := r.resolvers[requestType]
	return registered.resolver, registered.connectionType, ok
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.resolvers))
	for requestType := range r.resolvers {
		types = append(types, requestType)
	}
	sort.Strings(types)
	return types
}

// DefaultRegistry holds the postgres, redis and kafka resolvers.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(TypePostgres, "PostgresFind", PostgresFind)
	registry.MustRegister(TypePostgres, "PostgresInsert", PostgresInsert)
	registry.MustRegister(TypeRedis, "RedisGet", RedisGet)
	registry.MustRegister(TypeRedis, "RedisSet", RedisSet)
	registry.MustRegister(TypeKafka, "KafkaPublish", KafkaPublish)
	return registry
}
