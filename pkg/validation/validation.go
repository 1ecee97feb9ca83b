package validation

import (
	"errors"
	"fmt"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

const (
	RequiredMessage = "This field is required"
	DefaultMessage  = "Validation failed"
)

// Evaluate resolves an expression found at location. The parser bound to a block's scope satisfies it.
type Evaluate func(node any, location string) (any, error)

// Validate runs rules in order against whatever evaluate is bound to. Every rule is evaluated, a rule
// whose pass expression fails counts as failing and its error is joined into the returned error.
func Validate(blockID string, rules []models.ValidationRule, evaluate Evaluate, showValidationErrors bool) (models.ValidationResult, error) {
	result := models.NewValidationResult()
	var errs []error

	for i, rule := range rules {
		location := fmt.Sprintf("%s.validate[%d]", blockID, i)

		passed, err := evaluate(rule.Pass, location+".pass")
		if err != nil {
			errs = append(errs, err)
			passed = false
		}

		if utils.IsTruthy(passed) {
			continue
		}

		message, err := resolveMessage(rule.Message, location+".message", evaluate)
		if err != nil {
			errs = append(errs, err)
		}

		if rule.Level == models.ValidationLevelWarning {
			result.Warnings = append(result.Warnings, message)
			continue
		}
		result.Errors = append(result.Errors, message)
	}

	result.Status = Status(result, showValidationErrors)

	return result, errors.Join(errs...)
}

// Status derives the gated status. Nothing is reported while validation errors are hidden.
func Status(result models.ValidationResult, showValidationErrors bool) models.ValidationStatus {
	switch {
	case !showValidationErrors:
		return models.ValidationStatusNone
	case len(result.Errors) > 0:
		return models.ValidationStatusError
	case len(result.Warnings) > 0:
		return models.ValidationStatusWarning
	}

	return models.ValidationStatusNone
}

// WithRequired prepends the required message when a required value is empty.
func WithRequired(result models.ValidationResult, required bool, value any, showValidationErrors bool) models.ValidationResult {
	if !required || !utils.IsEmptyValue(value) {
		return result
	}

	result = result.Copy()
	result.Errors = append([]string{RequiredMessage}, result.Errors...)
	result.Status = Status(result, showValidationErrors)

	return result
}

func resolveMessage(message any, location string, evaluate Evaluate) (string, error) {
	if message == nil {
		return DefaultMessage, nil
	}

	resolved, err := evaluate(message, location)
	if err != nil {
		return DefaultMessage, err
	}

	text := utils.Stringify(resolved)
	if text == "" {
		return DefaultMessage, nil
	}
	return text, nil
}
