package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// OperatorError is raised by an operator when its params are malformed or cannot be evaluated.
type OperatorError struct {
	Operator string
	Received any
	Location string
	Message  string
}

func NewOperatorError(operator, msg string) *OperatorError {
	return &OperatorError{
		Operator: operator,
		Message:  msg,
	}
}

// NewOperatorErrorf creates a new OperatorError with a formatted message
func NewOperatorErrorf(operator, format string, args ...any) *OperatorError {
	return NewOperatorError(operator, fmt.Sprintf(format, args...))
}

func (e *OperatorError) Error() string {
	received, err := json.Marshal(map[string]any{e.Operator: e.Received})
	if err != nil {
		received = []byte(fmt.Sprintf("%v", e.Received))
	}

	return fmt.Sprintf("Operator Error: %s. Received: %s at %s.", e.Message, received, e.Location)
}

func (e *OperatorError) AddReceived(received any) *OperatorError {
	e.Received = received
	return e
}

func (e *OperatorError) AddLocation(location string) *OperatorError {
	e.Location = location
	return e
}

func (e *OperatorError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("operator", e.Operator).AddMetaValue("location", e.Location)
}

// OperatorNotFoundError is raised when a document names an operator that is not registered.
type OperatorNotFoundError struct {
	Operator string
	Location string
}

func NewOperatorNotFoundError(operator string) *OperatorNotFoundError {
	return &OperatorNotFoundError{Operator: operator}
}

func (e *OperatorNotFoundError) Error() string {
	return fmt.Sprintf("Operator Error: Unsupported operator %q at %s.", e.Operator, e.Location)
}

func (e *OperatorNotFoundError) AddLocation(location string) *OperatorNotFoundError {
	e.Location = location
	return e
}

func (e *OperatorNotFoundError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("operator", e.Operator).AddMetaValue("location", e.Location)
}

// ActionNotFoundError is raised when an action step names an unregistered action type.
type ActionNotFoundError struct {
	Type     string
	ActionID string
	BlockID  string
}

func NewActionNotFoundError(actionType string) *ActionNotFoundError {
	return &ActionNotFoundError{Type: actionType}
}

func (e *ActionNotFoundError) Error() string {
	path := []string{}
	if e.BlockID != "" {
		path = append(path, fmt.Sprintf("block '%s'", e.BlockID))
	}
	if e.ActionID != "" {
		path = append(path, fmt.Sprintf("action '%s'", e.ActionID))
	}

	msg := fmt.Sprintf("invalid action type %q", e.Type)
	if len(path) == 0 {
		return msg
	}

	return strings.Join(path, " -> ") + ": " + msg
}

func (e *ActionNotFoundError) AddActionID(actionID string) *ActionNotFoundError {
	e.ActionID = actionID
	return e
}

func (e *ActionNotFoundError) AddBlock(blockID string) *ActionNotFoundError {
	e.BlockID = blockID
	return e
}

func (e *ActionNotFoundError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("action_type", e.Type).AddMetaValue("action_id", e.ActionID).AddMetaValue("block_id", e.BlockID)
}

// ConfigurationError marks static configuration that is malformed, detected ahead of evaluation.
type ConfigurationError struct {
	Path    string
	Message string
}

func NewConfigurationError(msg string) *ConfigurationError {
	return &ConfigurationError{Message: msg}
}

// NewConfigurationErrorf creates a new ConfigurationError with a formatted message
func NewConfigurationErrorf(format string, args ...any) *ConfigurationError {
	// %w is not meaningful here, the message is all that is kept
	for i, arg := range args {
		if err, ok := arg.(error); ok && strings.Contains(format, "%w") {
			format = strings.Replace(format, "%w", "%v", 1)
			args[i] = err.Error()
		}
	}

	return NewConfigurationError(fmt.Sprintf(format, args...))
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ConfigurationError) AddPath(path string) *ConfigurationError {
	e.Path = path
	return e
}

func (e *ConfigurationError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusUnprocessableEntity, e.Error()).AddMetaValue("path", e.Path)
}

type httpConvertible interface {
	ToHTTPError() *httperror.HTTPError
}

// ToHTTPError converts engine errors to http errors. Other errors are returned unchanged.
func ToHTTPError(err error) error {
	if err == nil {
		return nil
	}

	if converted, ok := err.(httpConvertible); ok {
		return converted.ToHTTPError()
	}

	return err
}

func IsOperatorError(err error) bool {
	_, ok := err.(*OperatorError)
	return ok
}

func IsConfigurationError(err error) bool {
	_, ok := err.(*ConfigurationError)
	return ok
}
