package connections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/events"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/jmoiron/sqlx"
)

const (
	TypePostgres = "Postgres"
	TypeRedis    = "Redis"
	TypeKafka    = "Kafka"
)

// Querier is the postgres surface resolvers use. database.DB satisfies it.
type Querier interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// KeyValue is the redis surface resolvers use. *redis.Client satisfies it.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Clients hands out connected clients by connection id.
type Clients interface {
	Postgres(ctx context.Context, connectionID string) (Querier, error)
	Redis(ctx context.Context, connectionID string) (KeyValue, error)
	Kafka(ctx context.Context, connectionID string) (events.RawPublisher, error)
}

// Dialer opens clients for connection definitions.
type Dialer interface {
	DialPostgres(ctx context.Context, connection models.ConnectionDefinition) (Querier, error)
	DialRedis(ctx context.Context, connection models.ConnectionDefinition) (KeyValue, error)
	DialKafka(ctx context.Context, connection models.ConnectionDefinition) (events.RawPublisher, error)
}

// Pool opens one client per connection id on first use and keeps it until Close.
type Pool struct {
	mu          sync.Mutex
	connections map[string]models.ConnectionDefinition
	clients     map[string]any
	dialer      Dialer
	logger      ectologger.Logger
}

func NewPool(connections []models.ConnectionDefinition, dialer Dialer, logger ectologger.Logger) *Pool {
	byID := make(map[string]models.ConnectionDefinition, len(connections))
	for _, connection := range connections {
		byID[connection.ConnectionID] = connection
	}

	return &Pool{
		connections: byID,
		clients:     map[string]any{},
		dialer:      dialer,
		logger:      logger,
	}
}

func (p *Pool) Connection(connectionID string) (models.ConnectionDefinition, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	connection, ok := p.connections[connectionID]
	return connection, ok
}

func (p *Pool) Postgres(ctx context.Context, connectionID string) (Querier, error) {
	return open(ctx, p, connectionID, TypePostgres, p.dialer.DialPostgres)
}

func (p *Pool) Redis(ctx context.Context, connectionID string) (KeyValue, error) {
	return open(ctx, p, connectionID, TypeRedis, p.dialer.DialRedis)
}

func (p *Pool) Kafka(ctx context.Context, connectionID string) (events.RawPublisher, error) {
	return open(ctx, p, connectionID, TypeKafka, p.dialer.DialKafka)
}

// open dials under the pool lock so concurrent first uses share one client.
func open[T any](ctx context.Context, p *Pool, connectionID, connectionType string, dial func(context.Context, models.ConnectionDefinition) (T, error)) (T, error) {
	var zero T

	p.mu.Lock()
	defer p.mu.Unlock()

	connection, ok := p.connections[connectionID]
	if !ok {
		return zero, fernerr.NewConfigurationErrorf("connection %q is not defined", connectionID)
	}
	if connection.Type != connectionType {
		return zero, fernerr.NewConfigurationErrorf("connection %q is of type %s, not %s", connectionID, connection.Type, connectionType)
	}

	if client, ok := p.clients[connectionID]; ok {
		return client.(T), nil
	}

	client, err := dial(ctx, connection)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithField("connection_id", connectionID).Error("failed to open connection")
		return zero, err
	}

	p.clients[connectionID] = client
	return client, nil
}

// Close closes every opened client.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for connectionID, client := range p.clients {
		if closer, ok := client.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", connectionID, err))
			}
		}
		delete(p.clients, connectionID)
	}
	return errors.Join(errs...)
}

type postgresProperties struct {
	ConnectionString string `json:"connectionString" validate:"required"`
	MaxOpenConns     int    `json:"maxOpenConns" validate:"min=0"`
}

type kafkaProperties struct {
	Brokers []string `json:"brokers" validate:"required,min=1"`
	Topic   string   `json:"topic"`
}

// NetworkDialer connects to real servers.
type NetworkDialer struct {
	Logger ectologger.Logger
}

func (d NetworkDialer) DialPostgres(ctx context.Context, connection models.ConnectionDefinition) (Querier, error) {
	properties, err := utils.ValidateArguments[postgresProperties](connection.Properties)
	if err != nil {
		return nil, fernerr.NewConfigurationError(err.Error()).AddPath("connections." + connection.ConnectionID)
	}
	return database.Open(ctx, properties.ConnectionString, database.Config{MaxOpenConns: properties.MaxOpenConns}, d.Logger)
}

func (d NetworkDialer) DialRedis(ctx context.Context, connection models.ConnectionDefinition) (KeyValue, error) {
	config, err := utils.ValidateArguments[redis.Config](connection.Properties)
	if err != nil {
		return nil, fernerr.NewConfigurationError(err.Error()).AddPath("connections." + connection.ConnectionID)
	}
	return redis.NewClient(ctx, config, d.Logger)
}

func (d NetworkDialer) DialKafka(ctx context.Context, connection models.ConnectionDefinition) (events.RawPublisher, error) {
	properties, err := utils.ValidateArguments[kafkaProperties](connection.Properties)
	if err != nil {
		return nil, fernerr.NewConfigurationError(err.Error()).AddPath("connections." + connection.ConnectionID)
	}

	config := events.DefaultProducerConfig()
	config.Brokers = properties.Brokers
	config.Topic = properties.Topic
	return events.NewProducer(config, d.Logger)
}
