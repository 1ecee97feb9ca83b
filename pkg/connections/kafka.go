package connections

import (
	"context"
	"encoding/json"

	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type kafkaPublishPayload struct {
	Topic string `json:"topic"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// KafkaPublish writes value as JSON. Without a topic the connection's topic is used.
var KafkaPublish = NewResolver(false, true, func(ctx context.Context, request Request, payload kafkaPublishPayload) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "Connections.KafkaPublish")
	defer span.End()

	producer, err := request.Clients.Kafka(ctx, request.Connection.ConnectionID)
	if err != nil {
		return nil, err
	}

	value, err := json.Marshal(payload.Value)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		events.HeaderEventType: request.Type,
	}
	if traceParent := tracing.GetTraceParent(ctx); traceParent != "" {
		headers[events.HeaderTraceParent] = traceParent
	}

	if err := producer.PublishRawToTopic(ctx, payload.Topic, payload.Key, headers, value); err != nil {
		return nil, err
	}
	return map[string]any{"topic": payload.Topic, "key": payload.Key}, nil
})
