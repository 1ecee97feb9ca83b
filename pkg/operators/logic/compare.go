package logic

import (
	"reflect"
	"strings"

	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
)

var (
	Eq = operators.Definition{
		Name:        "_eq",
		Description: "Deep equality of two values. Numbers compare by value.",
		Operator:    operators.OperatorFunc(func(params operators.Params) (any, error) { return equality(params, true) }),
	}
	Ne = operators.Definition{
		Name:        "_ne",
		Description: "Negated _eq.",
		Operator:    operators.OperatorFunc(func(params operators.Params) (any, error) { return equality(params, false) }),
	}
	Gt  = ordering("_gt", "First value greater than the second.", func(c int) bool { return c > 0 })
	Gte = ordering("_gte", "First value greater than or equal to the second.", func(c int) bool { return c >= 0 })
	Lt  = ordering("_lt", "First value less than the second.", func(c int) bool { return c < 0 })
	Lte = ordering("_lte", "First value less than or equal to the second.", func(c int) bool { return c <= 0 })
)

func equality(params operators.Params, want bool) (any, error) {
	a, b, err := params.Pair()
	if err != nil {
		return nil, err
	}
	return Equal(a, b) == want, nil
}

// Equal compares decoded document values, treating 1 and 1.0 as equal.
func Equal(a, b any) bool {
	numA, okA := utils.ToFloat(a)
	numB, okB := utils.ToFloat(b)
	if okA && okB {
		return numA == numB
	}

	switch typedA := a.(type) {
	case []any:
		typedB, ok := b.([]any)
		if !ok || len(typedA) != len(typedB) {
			return false
		}
		for i := range typedA {
			if !Equal(typedA[i], typedB[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		typedB, ok := b.(map[string]any)
		if !ok || len(typedA) != len(typedB) {
			return false
		}
		for key, value := range typedA {
			other, ok := typedB[key]
			if !ok || !Equal(value, other) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

func ordering(name, description string, accept func(int) bool) operators.Definition {
	return operators.Definition{
		Name:        name,
		Description: description,
		Operator: operators.OperatorFunc(func(params operators.Params) (any, error) {
			a, b, err := params.Pair()
			if err != nil {
				return nil, err
			}

			numA, okA := utils.ToFloat(a)
			numB, okB := utils.ToFloat(b)
			if okA && okB {
				switch {
				case numA < numB:
					return accept(-1), nil
				case numA > numB:
					return accept(1), nil
				}
				return accept(0), nil
			}

			strA, okA := a.(string)
			strB, okB := b.(string)
			if okA && okB {
				return accept(strings.Compare(strA, strB)), nil
			}

			return nil, params.Errorf("%s takes an array of 2 numbers or 2 strings", params.Name())
		}),
	}
}
