package models

import (
	"bytes"
	"encoding/json"
)

type ValidationLevel string

const (
	ValidationLevelError   ValidationLevel = "error"
	ValidationLevelWarning ValidationLevel = "warning"
)

type ValidationRule struct {
	Pass    any             `json:"pass" yaml:"pass"`
	Message any             `json:"message" yaml:"message"`
	Level   ValidationLevel `json:"level,omitempty" yaml:"level" validate:"omitempty,oneof=error warning"`
}

// ValidationStatus is empty while validation errors are hidden; it encodes as null.
type ValidationStatus string

const (
	ValidationStatusNone    ValidationStatus = ""
	ValidationStatusError   ValidationStatus = "error"
	ValidationStatusWarning ValidationStatus = "warning"
)

func (s ValidationStatus) MarshalJSON() ([]byte, error) {
	if s == ValidationStatusNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *ValidationStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ValidationStatusNone
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ValidationStatus(raw)
	return nil
}

func (s ValidationStatus) MarshalYAML() (any, error) {
	if s == ValidationStatusNone {
		return nil, nil
	}
	return string(s), nil
}

type ValidationResult struct {
	Status   ValidationStatus `json:"status" yaml:"status"`
	Errors   []string         `json:"errors" yaml:"errors"`
	Warnings []string         `json:"warnings" yaml:"warnings"`
}

func NewValidationResult() ValidationResult {
	return ValidationResult{
		Status:   ValidationStatusNone,
		Errors:   []string{},
		Warnings: []string{},
	}
}

func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r ValidationResult) Copy() ValidationResult {
	return ValidationResult{
		Status:   r.Status,
		Errors:   append([]string{}, r.Errors...),
		Warnings: append([]string{}, r.Warnings...),
	}
}
