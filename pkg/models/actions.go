package models

import "time"

// ActionStep is one configured unit of work in an event's action list.
type ActionStep struct {
	ID              string `json:"id" yaml:"id" validate:"required"`
	Type            string `json:"type" yaml:"type" validate:"required"`
	Params          any    `json:"params,omitempty" yaml:"params"`
	Error           any    `json:"error,omitempty" yaml:"error"`
	Success         any    `json:"success,omitempty" yaml:"success"`
	Skip            any    `json:"skip,omitempty" yaml:"skip"`
	ContinueOnError bool   `json:"continueOnError,omitempty" yaml:"continueOnError"`
}

type StepStatus string

const (
	StepStatusSkipped   StepStatus = "skipped"
	StepStatusSucceeded StepStatus = "succeeded"
	StepStatusFailed    StepStatus = "failed"
)

// ErrorEntry records a failed step. Error holds the message of a raised error and is nil when the
// action declared the failure itself.
type ErrorEntry struct {
	ID           string  `json:"id" yaml:"id"`
	Type         string  `json:"type" yaml:"type"`
	Params       any     `json:"params" yaml:"params"`
	Args         any     `json:"args" yaml:"args"`
	Error        *string `json:"error" yaml:"error"`
	ErrorMessage string  `json:"errorMessage" yaml:"errorMessage"`
	Skipped      bool    `json:"skipped" yaml:"skipped"`
}

type StepRecord struct {
	ID             string     `json:"id" yaml:"id"`
	Type           string     `json:"type" yaml:"type"`
	Status         StepStatus `json:"status" yaml:"status"`
	SuccessMessage string     `json:"successMessage,omitempty" yaml:"successMessage,omitempty"`
	ErrorMessage   string     `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// ActionCallResult is the outcome of one triggered event. Lists are in step declaration order.
type ActionCallResult struct {
	BlockID  string        `json:"blockId" yaml:"blockId"`
	Event    string        `json:"event" yaml:"event"`
	Error    []ErrorEntry  `json:"error" yaml:"error"`
	Success  []string      `json:"success" yaml:"success"`
	Steps    []StepRecord  `json:"steps" yaml:"steps"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

func NewActionCallResult(blockID, event string) ActionCallResult {
	return ActionCallResult{
		BlockID: blockID,
		Event:   event,
		Error:   []ErrorEntry{},
		Success: []string{},
		Steps:   []StepRecord{},
		Started: time.Now().UTC(),
	}
}

func (r ActionCallResult) Failed() bool {
	return len(r.Error) > 0
}
