package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const keyPrefix = "fern:context:"

var ErrNotFound = errors.New("snapshot not found")

// Record is the persisted view of a live context.
type Record struct {
	ContextID string          `json:"contextId"`
	PageID    string          `json:"pageId"`
	State     map[string]any  `json:"state"`
	Snapshot  models.Snapshot `json:"snapshot"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Store interface {
	Save(ctx context.Context, record Record) error
	Load(ctx context.Context, contextID string) (Record, error)
	Delete(ctx context.Context, contextID string) error
}

// KeyValue is the redis surface the store uses. *redis.Client satisfies it.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore keeps records as JSON with a sliding TTL.
type RedisStore struct {
	client KeyValue
	ttl    time.Duration
	logger ectologger.Logger
}

func NewRedisStore(client KeyValue, ttl time.Duration, logger ectologger.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) Save(ctx context.Context, record Record) error {
	ctx, span := tracing.StartSpan(ctx, "SnapshotStore.Save")
	defer span.End()

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+record.ContextID, string(value), s.ttl); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("context_id", record.ContextID).Error("failed to save snapshot")
		return err
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, contextID string) (Record, error) {
	ctx, span := tracing.StartSpan(ctx, "SnapshotStore.Load")
	defer span.End()

	raw, err := s.client.Get(ctx, keyPrefix+contextID)
	if errors.Is(err, redis.ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return Record{}, fmt.Errorf("failed to read snapshot %s: %w", contextID, err)
	}
	return record, nil
}

func (s *RedisStore) Delete(ctx context.Context, contextID string) error {
	return s.client.Del(ctx, keyPrefix+contextID)
}

// MemoryStore keeps records in process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ContextID] = record
	return nil
}

func (s *MemoryStore) Load(_ context.Context, contextID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[contextID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) Delete(_ context.Context, contextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, contextID)
	return nil
}
