package model

import (
	"fmt"
	"strconv"
	"time"
)

// Missing keys decode to zero values; keys of the wrong type are an error.

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func boolField(m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("field %q: expected bool, got %T", key, v)
	}
	return b, nil
}

func uintField(m map[string]any, key string) (uint64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("field %q: negative id %d", key, n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("field %q: negative id %d", key, n)
		}
		return uint64(n), nil
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, fmt.Errorf("field %q: invalid id %v", key, n)
		}
		return uint64(n), nil
	case string:
		id, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("field %q: expected id, got %T", key, v)
	}
}

func timeField(m map[string]any, key string) (time.Time, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return time.Time{}, nil
	}
	switch t := v.(type) {
	case time.Time:
		return t.In(KST), nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %q: %w", key, err)
		}
		return parsed.In(KST), nil
	default:
		return time.Time{}, fmt.Errorf("field %q: expected timestamp, got %T", key, v)
	}
}
