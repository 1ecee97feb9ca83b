package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	HeaderEventType   = "fern-event-type"
	HeaderContextID   = "fern-context-id"
	HeaderTraceParent = "traceparent"

	EventTypeActionCalled = "action.called"
)

// RawPublisher is the kafka surface the publisher needs. *Producer satisfies it.
type RawPublisher interface {
	PublishRawToTopic(ctx context.Context, topic string, key string, headers map[string]string, value []byte) error
}

// Publisher receives an event for every finished action call.
type Publisher interface {
	PublishActionEvent(ctx context.Context, event ActionEvent) error
}

// ActionEvent describes one finished action call.
type ActionEvent struct {
	ContextID string                  `json:"contextId" yaml:"contextId"`
	PageID    string                  `json:"pageId" yaml:"pageId"`
	BlockID   string                  `json:"blockId" yaml:"blockId"`
	Event     string                  `json:"event" yaml:"event"`
	Result    models.ActionCallResult `json:"result" yaml:"-"`
	Timestamp time.Time               `json:"timestamp" yaml:"timestamp"`
}

// KafkaPublisher writes action events as JSON to one topic, keyed by context id.
type KafkaPublisher struct {
	producer RawPublisher
	topic    string
	logger   ectologger.Logger
}

func NewKafkaPublisher(producer RawPublisher, topic string, logger ectologger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (p *KafkaPublisher) PublishActionEvent(ctx context.Context, event ActionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize action event: %w", err)
	}

	headers := map[string]string{
		HeaderEventType: EventTypeActionCalled,
		HeaderContextID: event.ContextID,
	}
	if traceParent := tracing.GetTraceParent(ctx); traceParent != "" {
		headers[HeaderTraceParent] = traceParent
	}

	if err := p.producer.PublishRawToTopic(ctx, p.topic, event.ContextID, headers, value); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"topic":      p.topic,
			"context_id": event.ContextID,
			"block_id":   event.BlockID,
			"event":      event.Event,
		}).Error("Failed to publish action event")
		return err
	}

	return nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishActionEvent(context.Context, ActionEvent) error {
	return nil
}

// MemoryPublisher keeps events in memory. The run command prints them.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []ActionEvent
}

func (p *MemoryPublisher) PublishActionEvent(_ context.Context, event ActionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Events() []ActionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ActionEvent{}, p.events...)
}
