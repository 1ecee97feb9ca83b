package operators

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/Gobusters/ectolinq"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
)

// Parser resolves operator nodes in a document against one scope.
type Parser struct {
	registry *Registry
	scope    Scope
}

func NewParser(registry *Registry, scope Scope) *Parser {
	return &Parser{
		registry: registry,
		scope:    scope,
	}
}

func (p *Parser) Scope() Scope {
	return p.scope
}

// WithScope returns a parser sharing the registry with a different scope.
func (p *Parser) WithScope(scope Scope) *Parser {
	return &Parser{
		registry: p.registry,
		scope:    scope,
	}
}

// Parse resolves every operator node in input, innermost first. The input is never modified, maps and
// slices in the result are new containers.
func (p *Parser) Parse(input any, location string) (any, error) {
	return p.parse(input, location)
}

func (p *Parser) parse(node any, location string) (any, error) {
	switch typed := node.(type) {
	case map[string]any:
		if key, ok := operatorKey(typed); ok {
			return p.evaluate(key, typed[key], location)
		}

		resolved := make(map[string]any, len(typed))
		for _, key := range sortedKeys(typed) {
			value, err := p.parse(typed[key], joinKey(location, key))
			if err != nil {
				return nil, err
			}
			resolved[key] = value
		}
		return resolved, nil
	case []any:
		resolved := make([]any, len(typed))
		for i, item := range typed {
			value, err := p.parse(item, joinIndex(location, i))
			if err != nil {
				return nil, err
			}
			resolved[i] = value
		}
		return resolved, nil
	}

	return node, nil
}

func (p *Parser) evaluate(key string, raw any, location string) (any, error) {
	name, method := splitOperatorKey(key)

	definition, err := p.lookup(name, method, location)
	if err != nil {
		return nil, err
	}

	params := raw
	if !definition.Lazy {
		params, err = p.parse(raw, joinKey(location, key))
		if err != nil {
			return nil, err
		}
	}

	result, err := definition.Operator.Evaluate(Params{
		Operator: name,
		Method:   method,
		Params:   params,
		Location: location,
		Scope:    p.scope,
		Parse:    p.parse,
	})
	if err != nil {
		return nil, wrapOperatorError(err, key, params, location)
	}

	return result, nil
}

func (p *Parser) lookup(name, method, location string) (Definition, error) {
	definition, ok := p.registry.Get(name)
	if !ok {
		return Definition{}, fernerr.NewOperatorNotFoundError(joinMethod(name, method)).AddLocation(location)
	}

	if definition.RequiresMethod() && !ectolinq.Contains(definition.Methods, method) {
		return Definition{}, fernerr.NewOperatorNotFoundError(joinMethod(name, method)).AddLocation(location)
	}

	return definition, nil
}

// Check walks input without evaluating it and fails on the first unknown operator, including inside
// branches a lazy operator might never take.
func (p *Parser) Check(input any, location string) error {
	switch typed := input.(type) {
	case map[string]any:
		if key, ok := operatorKey(typed); ok {
			name, method := splitOperatorKey(key)
			if _, err := p.lookup(name, method, location); err != nil {
				return err
			}
			return p.Check(typed[key], joinKey(location, key))
		}

		for _, key := range sortedKeys(typed) {
			if err := p.Check(typed[key], joinKey(location, key)); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range typed {
			if err := p.Check(item, joinIndex(location, i)); err != nil {
				return err
			}
		}
	}

	return nil
}

// IsOperatorNode reports whether node is a single key map naming an operator.
func IsOperatorNode(node any) bool {
	typed, ok := node.(map[string]any)
	if !ok {
		return false
	}
	_, ok = operatorKey(typed)
	return ok
}

func operatorKey(node map[string]any) (string, bool) {
	if len(node) != 1 {
		return "", false
	}

	for key := range node {
		if len(key) < 2 || key[0] != '_' || !unicode.IsLetter(rune(key[1])) {
			return "", false
		}
		return key, true
	}

	return "", false
}

func splitOperatorKey(key string) (string, string) {
	name, method, _ := strings.Cut(key, ".")
	return name, method
}

func wrapOperatorError(err error, key string, params any, location string) error {
	switch typed := err.(type) {
	case *fernerr.OperatorError:
		if typed.Location == "" {
			typed.AddLocation(location)
		}
		return typed
	case *fernerr.OperatorNotFoundError:
		return typed
	}

	return fernerr.NewOperatorError(key, err.Error()).AddReceived(params).AddLocation(location)
}

func joinMethod(name, method string) string {
	if method == "" {
		return name
	}
	return name + "." + method
}

func joinKey(location, key string) string {
	if location == "" {
		return key
	}
	return location + "." + key
}

func joinIndex(location string, index int) string {
	return fmt.Sprintf("%s[%d]", location, index)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
