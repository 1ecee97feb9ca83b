package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	key     string
	headers map[string]string
	value   []byte
}

type recordingProducer struct {
	messages []published
	err      error
}

func (p *recordingProducer) PublishRawToTopic(_ context.Context, topic string, key string, headers map[string]string, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{topic: topic, key: key, headers: headers, value: value})
	return nil
}

func testEvent() ActionEvent {
	result := models.NewActionCallResult("submit", "onClick")
	result.Success = []string{"Saved"}

	return ActionEvent{
		ContextID: "ctx-1",
		PageID:    "signup",
		BlockID:   "submit",
		Event:     "onClick",
		Result:    result,
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaPublisher(t *testing.T) {
	producer := &recordingProducer{}
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	publisher := NewKafkaPublisher(producer, "fern-action-events", logger)

	require.NoError(t, publisher.PublishActionEvent(context.Background(), testEvent()))
	require.Len(t, producer.messages, 1)

	message := producer.messages[0]
	assert.Equal(t, "fern-action-events", message.topic)
	assert.Equal(t, "ctx-1", message.key)
	assert.Equal(t, EventTypeActionCalled, message.headers[HeaderEventType])
	assert.Equal(t, "ctx-1", message.headers[HeaderContextID])
	assert.NotContains(t, message.headers, HeaderTraceParent)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(message.value, &decoded))
	assert.Equal(t, "signup", decoded["pageId"])
	assert.Equal(t, "onClick", decoded["event"])
	assert.Equal(t, []any{"Saved"}, decoded["result"].(map[string]any)["success"])
}

func TestKafkaPublisherError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	err := NewKafkaPublisher(producer, "topic", logger).PublishActionEvent(context.Background(), testEvent())
	assert.EqualError(t, err, "broker down")
}

func TestMemoryPublisher(t *testing.T) {
	publisher := &MemoryPublisher{}
	assert.Empty(t, publisher.Events())

	require.NoError(t, publisher.PublishActionEvent(context.Background(), testEvent()))
	require.NoError(t, NoopPublisher{}.PublishActionEvent(context.Background(), testEvent()))

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "submit", events[0].BlockID)

	events[0].BlockID = "changed"
	assert.Equal(t, "submit", publisher.Events()[0].BlockID)
}

func TestNewProducer(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	_, err := NewProducer(ProducerConfig{}, logger)
	assert.EqualError(t, err, "at least one broker is required")

	producer, err := NewProducer(DefaultProducerConfig(), logger)
	require.NoError(t, err)
	assert.Equal(t, "fern-action-events", producer.DefaultTopic())
	require.NoError(t, producer.Close())
}
