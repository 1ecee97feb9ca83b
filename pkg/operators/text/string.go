package text

import (
	"strings"
	"unicode/utf8"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var String = operators.Definition{
	Name:        "_string",
	Description: "String helpers: concat, upper, lower, trim, length, startsWith, endsWith, includes, split, replace.",
	Methods:     []string{"concat", "upper", "lower", "trim", "length", "startsWith", "endsWith", "includes", "split", "replace"},
	Operator:    operators.OperatorFunc(evaluateString),
}

func evaluateString(params operators.Params) (any, error) {
	switch params.Method {
	case "concat":
		items, ok := params.Array()
		if !ok {
			return nil, params.Error("_string.concat takes an array type as input")
		}
		return strings.Join(ectolinq.Map(items, utils.Stringify), ""), nil
	case "upper":
		return transform(params, strings.ToUpper)
	case "lower":
		return transform(params, strings.ToLower)
	case "trim":
		return transform(params, strings.TrimSpace)
	case "length":
		s, err := params.String()
		if err != nil {
			return nil, err
		}
		return utf8.RuneCountInString(s), nil
	case "startsWith":
		return test(params, strings.HasPrefix)
	case "endsWith":
		return test(params, strings.HasSuffix)
	case "includes":
		return test(params, strings.Contains)
	case "split":
		s, sep, err := stringPair(params)
		if err != nil {
			return nil, err
		}
		return ectolinq.Map(strings.Split(s, sep), func(part string) any { return part }), nil
	case "replace":
		items, ok := params.Array()
		if !ok || len(items) != 3 {
			return nil, params.Error("_string.replace takes an array of [string, old, new]")
		}
		parts, ok := allStrings(items)
		if !ok {
			return nil, params.Error("_string.replace takes an array of 3 strings")
		}
		return strings.ReplaceAll(parts[0], parts[1], parts[2]), nil
	}

	return nil, params.Errorf("unsupported method %q", params.Method)
}

func transform(params operators.Params, fn func(string) string) (any, error) {
	s, err := params.String()
	if err != nil {
		return nil, err
	}
	return fn(s), nil
}

func test(params operators.Params, fn func(string, string) bool) (any, error) {
	s, other, err := stringPair(params)
	if err != nil {
		return nil, err
	}
	return fn(s, other), nil
}

func stringPair(params operators.Params) (string, string, error) {
	first, second, err := params.Pair()
	if err != nil {
		return "", "", err
	}

	parts, ok := allStrings([]any{first, second})
	if !ok {
		return "", "", params.Errorf("%s takes an array of 2 strings", params.Name())
	}
	return parts[0], parts[1], nil
}

func allStrings(items []any) ([]string, bool) {
	parts := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		parts[i] = s
	}
	return parts, true
}
