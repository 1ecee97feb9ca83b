package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseArguments converts loosely typed params into T via a JSON round trip.
func ParseArguments[T any](args any) (T, error) {
	var result T

	if arg, ok := args.(T); ok {
		return arg, nil
	}

	b, err := json.Marshal(args)
	if err != nil {
		return result, err
	}

	if err = json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("argument %s is not a valid %T", b, result)
	}

	return result, nil
}

func ValidateArguments[T any](args any) (T, error) {
	result, err := ParseArguments[T](args)
	if err != nil {
		return result, err
	}

	if err = validate.Struct(result); err != nil {
		return result, ValidationErrorToString(result, err)
	}

	return result, nil
}

func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, ValidationErrorToString(value, err)
	}

	return value, nil
}

func ValidationErrorToString(input any, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() == "" {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", fe.Namespace(), fe.Tag()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s' expected '%s', got '%v'", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}

	return fmt.Errorf("invalid %T: %s", input, strings.Join(msgs, "; "))
}
