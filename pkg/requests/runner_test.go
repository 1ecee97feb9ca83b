package requests

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/connections"
	"github.com/Ramsey-B/fern/pkg/events"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/operators/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("offline")

type offlineDialer struct{}

func (offlineDialer) DialPostgres(context.Context, models.ConnectionDefinition) (connections.Querier, error) {
	return nil, errOffline
}

func (offlineDialer) DialRedis(context.Context, models.ConnectionDefinition) (connections.KeyValue, error) {
	return nil, errOffline
}

func (offlineDialer) DialKafka(context.Context, models.ConnectionDefinition) (events.RawPublisher, error) {
	return nil, errOffline
}

type echoPayload struct {
	Name string `json:"name" validate:"required"`
}

func newRunner() *Runner {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	readOnly := false

	resolvers := connections.NewRegistry()
	resolvers.MustRegister(connections.TypeRedis, "Echo", connections.NewResolver(true, false, func(_ context.Context, request connections.Request, payload echoPayload) (any, error) {
		return map[string]any{"hello": payload.Name, "connection": request.Connection.ConnectionID}, nil
	}))
	resolvers.MustRegister(connections.TypeRedis, "Store", connections.NewResolver(false, true, func(context.Context, connections.Request, echoPayload) (any, error) {
		return "stored", nil
	}))
	resolvers.MustRegister(connections.TypeRedis, "Dial", connections.NewResolver(true, false, func(ctx context.Context, request connections.Request, _ echoPayload) (any, error) {
		return request.Clients.Redis(ctx, request.Connection.ConnectionID)
	}))

	pool := connections.NewPool([]models.ConnectionDefinition{
		{ConnectionID: "cache", Type: connections.TypeRedis},
		{ConnectionID: "writable", Type: connections.TypeRedis, Write: true},
		{ConnectionID: "blind", Type: connections.TypeRedis, Read: &readOnly, Write: true},
		{ConnectionID: "bus", Type: connections.TypeKafka, Write: true},
	}, offlineDialer{}, logger)

	return NewRunner(builtin.NewRegistry(), resolvers, pool, logger)
}

func TestRunner_ResolvesPayload(t *testing.T) {
	runner := newRunner()

	response, err := runner.Run(context.Background(), models.RequestDefinition{
		RequestID:    "greet",
		ConnectionID: "cache",
		Type:         "Echo",
		Payload:      map[string]any{"name": map[string]any{"_state": "user.name"}},
	}, operators.Scope{State: map[string]any{"user": map[string]any{"name": "Ada"}}})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hello": "Ada", "connection": "cache"}, response)
}

func TestRunner_Errors(t *testing.T) {
	runner := newRunner()

	tests := []struct {
		name    string
		request models.RequestDefinition
		path    string
	}{
		{
			name:    "unknown type",
			request: models.RequestDefinition{RequestID: "r", ConnectionID: "cache", Type: "Nope"},
			path:    "requests.r.type",
		},
		{
			name:    "unknown connection",
			request: models.RequestDefinition{RequestID: "r", ConnectionID: "missing", Type: "Echo"},
			path:    "requests.r.connectionId",
		},
		{
			name:    "connection type mismatch",
			request: models.RequestDefinition{RequestID: "r", ConnectionID: "bus", Type: "Echo"},
			path:    "requests.r.connectionId",
		},
		{
			name:    "write on read only connection",
			request: models.RequestDefinition{RequestID: "r", ConnectionID: "cache", Type: "Store", Payload: map[string]any{"name": "a"}},
			path:    "requests.r",
		},
		{
			name:    "read on connection with reads disabled",
			request: models.RequestDefinition{RequestID: "r", ConnectionID: "blind", Type: "Echo", Payload: map[string]any{"name": "a"}},
			path:    "requests.r",
		},
		{
			name:    "schema",
			request: models.RequestDefinition{RequestID: "r", ConnectionID: "cache", Type: "Echo", Payload: map[string]any{}},
			path:    "requests.r.payload",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := runner.Run(context.Background(), test.request, operators.Scope{})

			var configErr *fernerr.ConfigurationError
			require.True(t, errors.As(err, &configErr), "got %v", err)
			assert.Equal(t, test.path, configErr.Path)
		})
	}
}

func TestRunner_PayloadOperatorError(t *testing.T) {
	_, err := newRunner().Run(context.Background(), models.RequestDefinition{
		RequestID:    "greet",
		ConnectionID: "cache",
		Type:         "Echo",
		Payload:      map[string]any{"name": map[string]any{"_divide": []any{1, 0}}},
	}, operators.Scope{})

	var opErr *fernerr.OperatorError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "requests.greet.payload.name", opErr.Location)
}

func TestRunner_WritesAllowed(t *testing.T) {
	response, err := newRunner().Run(context.Background(), models.RequestDefinition{
		RequestID: "save", ConnectionID: "writable", Type: "Store", Payload: map[string]any{"name": "a"},
	}, operators.Scope{})
	require.NoError(t, err)
	assert.Equal(t, "stored", response)
}

func TestRunner_DialFailure(t *testing.T) {
	_, err := newRunner().Run(context.Background(), models.RequestDefinition{
		RequestID: "r", ConnectionID: "cache", Type: "Dial", Payload: map[string]any{"name": "a"},
	}, operators.Scope{})
	assert.ErrorIs(t, err, errOffline)
}
