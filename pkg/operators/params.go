package operators

import (
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Array returns the params as a list. Any Go slice is accepted.
func (p Params) Array() ([]any, bool) {
	if p.Params == nil {
		return nil, false
	}
	items, err := utils.AnyToType[[]any](p.Params)
	return items, err == nil
}

// Object returns the params as a map.
func (p Params) Object() (map[string]any, bool) {
	object, ok := p.Params.(map[string]any)
	return object, ok
}

// Numbers returns the params as a list of numbers. It fails with an OperatorError naming the expected
// shape.
func (p Params) Numbers(length int) ([]float64, error) {
	items, ok := p.Array()
	if !ok {
		return nil, p.Errorf("%s takes an array type as input", p.Name())
	}
	if length >= 0 && len(items) != length {
		return nil, p.Errorf("%s takes an array of length %d as input", p.Name(), length)
	}

	numbers := make([]float64, len(items))
	for i, item := range items {
		num, ok := utils.ToFloat(item)
		if !ok {
			if length >= 0 {
				return nil, p.Errorf("%s takes an array of %d numbers", p.Name(), length)
			}
			return nil, p.Errorf("%s takes an array of numbers", p.Name())
		}
		numbers[i] = num
	}

	return numbers, nil
}

// Number returns the params as a single number.
func (p Params) Number() (float64, error) {
	num, ok := utils.ToFloat(p.Params)
	if !ok {
		return 0, p.Errorf("%s takes a number as input", p.Name())
	}
	return num, nil
}

// String returns the params as a single string.
func (p Params) String() (string, error) {
	s, ok := p.Params.(string)
	if !ok {
		return "", p.Errorf("%s takes a string as input", p.Name())
	}
	return s, nil
}

// Pair returns the two items of a length 2 list.
func (p Params) Pair() (any, any, error) {
	items, ok := p.Array()
	if !ok || len(items) != 2 {
		return nil, nil, p.Errorf("%s takes an array of length 2 as input", p.Name())
	}
	return items[0], items[1], nil
}
