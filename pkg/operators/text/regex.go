package text

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var Regex = operators.Definition{
	Name:        "_regex",
	Description: "Tests a string against a pattern. Takes a pattern string or {pattern, key, on, flags}; a value that is not a string never matches.",
	Operator:    operators.OperatorFunc(regex),
}

type regexArguments struct {
	Pattern string `json:"pattern" validate:"required"`
	Key     string `json:"key" validate:"omitempty"`
	Flags   string `json:"flags" validate:"omitempty"`
}

var compiled sync.Map

func regex(params operators.Params) (any, error) {
	var args regexArguments
	value := params.Scope.Value

	switch typed := params.Params.(type) {
	case string:
		args.Pattern = typed
	case map[string]any:
		parsed, err := utils.ValidateArguments[regexArguments](typed)
		if err != nil {
			return nil, params.Error(err.Error())
		}
		args = parsed

		if on, ok := typed["on"]; ok {
			value = on
		}
		if args.Key != "" {
			value, _ = utils.GetPath(params.Scope.State, args.Key)
		}
	default:
		return nil, params.Error("_regex takes a string or object as input")
	}

	re, err := compile(args.Pattern, args.Flags)
	if err != nil {
		return nil, params.Error(err.Error())
	}

	s, ok := value.(string)
	if !ok {
		return false, nil
	}

	return re.MatchString(s), nil
}

// compile caches patterns by their flag-prefixed source.
func compile(pattern, flags string) (*regexp.Regexp, error) {
	prefix, err := inlineFlags(flags)
	if err != nil {
		return nil, err
	}

	source := prefix + pattern
	if re, ok := compiled.Load(source); ok {
		return re.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	compiled.Store(source, re)

	return re, nil
}

// inlineFlags maps pattern flags to Go inline flags. g and u only change iteration or encoding, which
// don't apply to a match test.
func inlineFlags(flags string) (string, error) {
	var supported strings.Builder
	for _, flag := range flags {
		switch flag {
		case 'i', 'm', 's':
			supported.WriteRune(flag)
		case 'g', 'u':
		default:
			return "", fmt.Errorf("unsupported regex flag %q", flag)
		}
	}

	if supported.Len() == 0 {
		return "", nil
	}
	return "(?" + supported.String() + ")", nil
}
