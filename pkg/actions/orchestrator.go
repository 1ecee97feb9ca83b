package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Orchestrator runs the action steps of one event strictly in order.
type Orchestrator struct {
	operators *operators.Registry
	actions   *Registry
	publisher events.Publisher
	logger    ectologger.Logger
}

func NewOrchestrator(operatorRegistry *operators.Registry, actionRegistry *Registry, publisher events.Publisher, logger ectologger.Logger) *Orchestrator {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &Orchestrator{
		operators: operatorRegistry,
		actions:   actionRegistry,
		publisher: publisher,
		logger:    logger,
	}
}

func (o *Orchestrator) Actions() *Registry {
	return o.actions
}

// stepRun tracks one call while its steps execute.
type stepRun struct {
	page    Page
	blockID string
	event   string
	opts    CallOptions
	values  map[string]any
	result  models.ActionCallResult
}

// Call runs steps for blockID's event and reports every attempted step. It never fails: errors are
// recorded in the result. Lists follow step declaration order.
func (o *Orchestrator) Call(ctx context.Context, page Page, blockID, event string, steps []models.ActionStep, opts CallOptions) models.ActionCallResult {
	ctx, span := tracing.StartSpan(ctx, "Orchestrator.Call")
	defer span.End()

	run := &stepRun{
		page:    page,
		blockID: blockID,
		event:   event,
		opts:    opts,
		values:  map[string]any{},
		result:  models.NewActionCallResult(blockID, event),
	}

	for i, step := range steps {
		if !o.runStep(ctx, run, i, step) {
			break
		}
	}

	run.result.Duration = time.Since(run.result.Started)

	status := "succeeded"
	if run.result.Failed() {
		status = "failed"
	}
	metrics.RecordActionCall(event, status, run.result.Duration.Seconds())

	err := o.publisher.PublishActionEvent(ctx, events.ActionEvent{
		ContextID: page.ID(),
		PageID:    page.PageID(),
		BlockID:   blockID,
		Event:     event,
		Result:    run.result,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		o.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"block_id": blockID,
			"event":    event,
		}).Warn("Failed to publish action event")
	}

	return run.result
}

// runStep executes one step and reports whether the chain should continue.
func (o *Orchestrator) runStep(ctx context.Context, run *stepRun, index int, step models.ActionStep) bool {
	ctx, span := tracing.StartSpan(ctx, "Orchestrator.runStep")
	defer span.End()

	location := fmt.Sprintf("%s.actions.%s[%d]", run.blockID, run.event, index)
	parser := o.parser(run)

	if step.Skip != nil {
		skip, err := parser.Parse(step.Skip, location+".skip")
		if err != nil {
			return o.fail(ctx, run, location, step, step.Params, err, nil)
		}
		if utils.IsTruthy(skip) {
			run.result.Steps = append(run.result.Steps, models.StepRecord{ID: step.ID, Type: step.Type, Status: models.StepStatusSkipped})
			metrics.RecordActionStep(step.Type, string(models.StepStatusSkipped))
			return true
		}
	}

	params, err := parser.Parse(step.Params, location+".params")
	if err != nil {
		return o.fail(ctx, run, location, step, step.Params, err, nil)
	}

	action, ok := o.actions.Get(step.Type)
	if !ok {
		err := fernerr.NewActionNotFoundError(step.Type).AddActionID(step.ID).AddBlock(run.blockID)
		return o.fail(ctx, run, location, step, params, err, nil)
	}

	result, err := action.Run(ctx, Params{
		BlockID: run.blockID,
		StepID:  step.ID,
		Event:   run.event,
		Params:  params,
		Args:    utils.DeepCopyMap(run.opts.Args),
		Page:    run.page,
		Logger:  o.logger,
	})
	if err != nil || !result.OK {
		tracing.RecordError(span, err)
		return o.fail(ctx, run, location, step, params, err, result.Errors)
	}

	run.values[step.ID] = result.Value

	record := models.StepRecord{ID: step.ID, Type: step.Type, Status: models.StepStatusSucceeded}
	if step.Success != nil {
		record.SuccessMessage = defaultSuccessMessage(step)
		message, err := o.parser(run).Parse(step.Success, location+".success")
		if err != nil {
			o.logger.WithContext(ctx).WithError(err).WithField("location", location).Warn("Failed to resolve success message")
		} else {
			record.SuccessMessage = utils.Stringify(message)
		}
		run.result.Success = append(run.result.Success, record.SuccessMessage)
	}

	run.result.Steps = append(run.result.Steps, record)
	metrics.RecordActionStep(step.Type, string(models.StepStatusSucceeded))

	return true
}

// fail records a failed step. err is nil when the action declared the failure itself.
func (o *Orchestrator) fail(ctx context.Context, run *stepRun, location string, step models.ActionStep, params any, err error, declared []string) bool {
	entry := models.ErrorEntry{
		ID:     step.ID,
		Type:   step.Type,
		Params: params,
		Args:   utils.DeepCopyMap(run.opts.Args),
	}

	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	}

	entry.ErrorMessage = defaultErrorMessage(step, err, declared)
	if step.Error != nil {
		message, parseErr := o.parser(run).Parse(step.Error, location+".error")
		if parseErr != nil {
			o.logger.WithContext(ctx).WithError(parseErr).WithField("location", location).Warn("Failed to resolve error message")
		} else if text := utils.Stringify(message); text != "" {
			entry.ErrorMessage = text
		}
	}

	run.result.Error = append(run.result.Error, entry)
	run.result.Steps = append(run.result.Steps, models.StepRecord{
		ID:           step.ID,
		Type:         step.Type,
		Status:       models.StepStatusFailed,
		ErrorMessage: entry.ErrorMessage,
	})
	metrics.RecordActionStep(step.Type, string(models.StepStatusFailed))

	o.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
		"block_id":          run.blockID,
		"event":             run.event,
		"step_id":           step.ID,
		"type":              step.Type,
		"continue_on_error": step.ContinueOnError,
	}).Info("Action step failed")

	return step.ContinueOnError
}

// parser builds a parser over the page's current state, so steps see the writes of earlier steps.
func (o *Orchestrator) parser(run *stepRun) *operators.Parser {
	scope := run.page.Scope(run.blockID).
		WithActions(utils.DeepCopyMap(run.values)).
		WithEvent(utils.DeepCopyMap(run.opts.Event))
	scope.Args = utils.DeepCopyMap(run.opts.Args)

	return operators.NewParser(o.operators, scope)
}

func defaultSuccessMessage(step models.ActionStep) string {
	return fmt.Sprintf("Action %q of type %s succeeded.", step.ID, step.Type)
}

func defaultErrorMessage(step models.ActionStep, err error, declared []string) string {
	if err != nil {
		return err.Error()
	}
	if len(declared) > 0 {
		return strings.Join(declared, " ")
	}
	return fmt.Sprintf("Action %q of type %s failed.", step.ID, step.Type)
}
