package connections

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type redisGetPayload struct {
	Key string `json:"key" validate:"required"`
}

type redisSetPayload struct {
	Key        string `json:"key" validate:"required"`
	Value      any    `json:"value"`
	TTLSeconds int    `json:"ttlSeconds" validate:"min=0"`
}

// RedisGet reads a key. JSON values are decoded, anything else is returned as a string. Missing keys are nil.
var RedisGet = NewResolver(true, false, func(ctx context.Context, request Request, payload redisGetPayload) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "Connections.RedisGet")
	defer span.End()

	client, err := request.Clients.Redis(ctx, request.Connection.ConnectionID)
	if err != nil {
		return nil, err
	}

	raw, err := client.Get(ctx, payload.Key)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw, nil
	}
	return decoded, nil
})

// RedisSet writes a key. Strings are stored as is and other values as JSON.
var RedisSet = NewResolver(false, true, func(ctx context.Context, request Request, payload redisSetPayload) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "Connections.RedisSet")
	defer span.End()

	client, err := request.Clients.Redis(ctx, request.Connection.ConnectionID)
	if err != nil {
		return nil, err
	}

	value, ok := payload.Value.(string)
	if !ok {
		encoded, err := json.Marshal(payload.Value)
		if err != nil {
			return nil, err
		}
		value = string(encoded)
	}

	if err := client.Set(ctx, payload.Key, value, time.Duration(payload.TTLSeconds)*time.Second); err != nil {
		return nil, err
	}
	return map[string]any{"key": payload.Key}, nil
})
