package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/connections"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Connections looks up connection definitions and opens their clients.
type Connections interface {
	connections.Clients
	Connection(connectionID string) (models.ConnectionDefinition, bool)
}

// Runner resolves page requests through the connection resolvers.
type Runner struct {
	operators   *operators.Registry
	resolvers   *connections.Registry
	connections Connections
	logger      ectologger.Logger
}

func NewRunner(operatorRegistry *operators.Registry, resolvers *connections.Registry, pool Connections, logger ectologger.Logger) *Runner {
	return &Runner{
		operators:   operatorRegistry,
		resolvers:   resolvers,
		connections: pool,
		logger:      logger,
	}
}

// Run resolves the request payload against scope, checks it and hands it to the resolver.
func (r *Runner) Run(ctx context.Context, request models.RequestDefinition, scope operators.Scope) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "Requests.Run")
	defer span.End()

	started := time.Now()
	path := fmt.Sprintf("requests.%s", request.RequestID)

	resolver, connectionType, err := r.prepare(request, path)
	if err != nil {
		tracing.RecordError(span, err)
		metrics.RecordRequest(connectionType, request.Type, "error", time.Since(started).Seconds())
		return nil, err
	}

	response, err := r.resolve(ctx, request, resolver, scope, path)

	status := "success"
	if err != nil {
		status = "error"
		tracing.RecordError(span, err)
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"request_id":    request.RequestID,
			"connection_id": request.ConnectionID,
			"type":          request.Type,
		}).Warn("request failed")
	}
	metrics.RecordRequest(connectionType, request.Type, status, time.Since(started).Seconds())

	return response, err
}

func (r *Runner) prepare(request models.RequestDefinition, path string) (connections.Resolver, string, error) {
	resolver, connectionType, ok := r.resolvers.Get(request.Type)
	if !ok {
		return nil, "", fernerr.NewConfigurationErrorf("unsupported request type %q", request.Type).AddPath(path + ".type")
	}

	connection, ok := r.connections.Connection(request.ConnectionID)
	if !ok {
		return nil, connectionType, fernerr.NewConfigurationErrorf("connection %q is not defined", request.ConnectionID).AddPath(path + ".connectionId")
	}
	if connection.Type != connectionType {
		return nil, connectionType, fernerr.NewConfigurationErrorf("request type %s needs a %s connection, %q is %s", request.Type, connectionType, connection.ConnectionID, connection.Type).AddPath(path + ".connectionId")
	}
	if resolver.CheckRead() && !connection.CanRead() {
		return nil, connectionType, fernerr.NewConfigurationErrorf("connection %q does not allow reads", connection.ConnectionID).AddPath(path)
	}
	if resolver.CheckWrite() && !connection.Write {
		return nil, connectionType, fernerr.NewConfigurationErrorf("connection %q does not allow writes", connection.ConnectionID).AddPath(path)
	}

	return resolver, connectionType, nil
}

func (r *Runner) resolve(ctx context.Context, request models.RequestDefinition, resolver connections.Resolver, scope operators.Scope, path string) (any, error) {
	payload, err := operators.NewParser(r.operators, scope).Parse(request.Payload, path+".payload")
	if err != nil {
		return nil, err
	}

	if err := resolver.Validate(payload); err != nil {
		if configErr, ok := err.(*fernerr.ConfigurationError); ok {
			return nil, configErr.AddPath(path + ".payload")
		}
		return nil, err
	}

	connection, _ := r.connections.Connection(request.ConnectionID)
	return resolver.Resolve(ctx, connections.Request{
		RequestID:  request.RequestID,
		Type:       request.Type,
		Connection: connection,
		Payload:    payload,
		Clients:    r.connections,
	})
}
