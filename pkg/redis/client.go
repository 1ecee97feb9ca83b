package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Config holds Redis connection configuration
type Config struct {
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"required,min=1"`
	Password string `json:"password"`
	DB       int    `json:"db" validate:"min=0"`
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client wraps the Redis client with logging and tracing
type Client struct {
	rdb    *redis.Client
	logger ectologger.Logger
}

// NewClient connects and pings Redis. Unreachable servers fail fast.
func NewClient(ctx context.Context, cfg Config, logger ectologger.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}

	logger.WithContext(ctx).Infof("Connected to Redis at %s", cfg.Addr())

	return &Client{
		rdb:    rdb,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Redis returns the underlying client
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get reads key. A missing key is ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "Redis.Get")
	defer span.End()

	value, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("key", key).Error("failed to read key")
		return "", err
	}
	return value, nil
}

// Set writes key. A zero expiration keeps the key forever.
func (c *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	ctx, span := tracing.StartSpan(ctx, "Redis.Set")
	defer span.End()

	if err := c.rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("key", key).Error("failed to write key")
		return err
	}
	return nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}
