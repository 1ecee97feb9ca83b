package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type publishArguments struct {
	Topic   string `json:"topic"`
	Key     string `json:"key"`
	Payload any    `json:"payload"`
}

var ErrPublishNotConfigured = errors.New("Publish has no event producer configured")

// NewPublish returns the Publish action writing {topic, key, payload} through producer. Without a topic
// the producer's default topic is used.
func NewPublish(producer events.RawPublisher) Action {
	return ActionFunc(func(ctx context.Context, params Params) (Result, error) {
		if producer == nil {
			return Result{}, ErrPublishNotConfigured
		}

		args, err := utils.ValidateArguments[publishArguments](params.Params)
		if err != nil {
			return Result{}, err
		}

		value, err := json.Marshal(args.Payload)
		if err != nil {
			return Result{}, fmt.Errorf("failed to serialize payload: %w", err)
		}

		headers := map[string]string{
			events.HeaderContextID: params.Page.ID(),
			events.HeaderEventType: params.Event,
		}
		if err := producer.PublishRawToTopic(ctx, args.Topic, args.Key, headers, value); err != nil {
			return Result{}, err
		}

		return Ok(map[string]any{"topic": args.Topic, "key": args.Key}), nil
	})
}
