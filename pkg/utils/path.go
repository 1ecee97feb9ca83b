package utils

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

const (
	SplitToken     = "."
	IndexCloseChar = "]"
	IndexOpenChar  = "["
)

var (
	ErrMalformedIndex = errors.New("malformed index key")
)

// SplitPath turns `a.b[1].c` into [a b [1] c] segments, indexes kept as their own segment.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	segments := []string{}
	for _, part := range strings.Split(path, SplitToken) {
		for part != "" {
			start := strings.Index(part, IndexOpenChar)
			if start == -1 {
				if strings.Contains(part, IndexCloseChar) {
					return nil, ErrMalformedIndex
				}
				segments = append(segments, part)
				break
			}

			end := strings.Index(part, IndexCloseChar)
			if end < start {
				return nil, ErrMalformedIndex
			}

			if start > 0 {
				segments = append(segments, part[:start])
			}
			if index, err := strconv.Atoi(part[start+1 : end]); err != nil || index < 0 {
				return nil, ErrMalformedIndex
			}
			segments = append(segments, part[start:end+1])
			part = part[end+1:]
		}
	}

	return segments, nil
}

// GetPath looks up a dotted path such as `user.addresses[0].city` in decoded document data. The bool is
// false when any segment is missing.
func GetPath(source any, path string) (any, bool) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, false
	}

	current := source
	for _, segment := range segments {
		next, ok := getSegment(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}

	return current, true
}

func getSegment(source any, segment string) (any, bool) {
	if strings.HasPrefix(segment, IndexOpenChar) {
		index, _ := strconv.Atoi(segment[1 : len(segment)-1])
		value := reflect.ValueOf(source)
		if value.Kind() != reflect.Slice || index < 0 || index >= value.Len() {
			return nil, false
		}
		return value.Index(index).Interface(), true
	}

	switch typed := source.(type) {
	case map[string]any:
		value, ok := typed[segment]
		return value, ok
	case []any:
		// numeric segments index into lists, `list.0`
		index, err := strconv.Atoi(segment)
		if err != nil || index < 0 || index >= len(typed) {
			return nil, false
		}
		return typed[index], true
	}

	value := reflect.ValueOf(source)
	if value.Kind() == reflect.Map && value.Type().Key().Kind() == reflect.String {
		found := value.MapIndex(reflect.ValueOf(segment).Convert(value.Type().Key()))
		if !found.IsValid() {
			return nil, false
		}
		return found.Interface(), true
	}

	return nil, false
}

// AssignMapValue writes value at a path in GetPath's syntax, creating intermediate maps and growing lists
// with nil items up to an index. Non-container intermediates are replaced. A malformed path, or one starting
// with an index, is written as a literal key.
func AssignMapValue(targetRaw map[string]any, path string, value any) map[string]any {
	if path == "" {
		return targetRaw
	}

	segments, err := SplitPath(path)
	if err != nil || strings.HasPrefix(segments[0], IndexOpenChar) {
		targetRaw[path] = value
		return targetRaw
	}

	targetRaw[segments[0]] = assignSegments(targetRaw[segments[0]], segments[1:], value)
	return targetRaw
}

func assignSegments(current any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}

	segment := segments[0]
	list, isList := current.([]any)

	index := -1
	if strings.HasPrefix(segment, IndexOpenChar) {
		index, _ = strconv.Atoi(segment[1 : len(segment)-1])
	} else if isList {
		// `list.0` addresses the same item as `list[0]`
		if parsed, err := strconv.Atoi(segment); err == nil {
			index = parsed
		}
	}

	if index >= 0 {
		if len(list) <= index {
			grown := make([]any, index+1)
			copy(grown, list)
			list = grown
		}
		list[index] = assignSegments(list[index], segments[1:], value)
		return list
	}

	existingValue, ok := current.(map[string]any)
	if !ok {
		existingValue = make(map[string]any)
	}
	existingValue[segment] = assignSegments(existingValue[segment], segments[1:], value)
	return existingValue
}
