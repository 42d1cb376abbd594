// Package bridge decodes generic method calls and runs them against the
// gallery on the worker queue.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrNotImplemented  = errors.New("method not implemented")
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// MethodCall is one request crossing the bridge. Arguments arrive decoded
// from JSON, so numbers are float64 or json.Number.
type MethodCall struct {
	Method    string         `json:"method"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

func (c MethodCall) raw(key string) (any, bool) {
	v, ok := c.Arguments[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns nil when the argument is absent or null.
func (c MethodCall) String(key string) (*string, error) {
	v, ok := c.raw(key)
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidArgument, key)
	}
	return &s, nil
}

func (c MethodCall) RequiredString(key string) (string, error) {
	s, err := c.String(key)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	return *s, nil
}

// StringOr returns def when the argument is absent.
func (c MethodCall) StringOr(key, def string) (string, error) {
	s, err := c.String(key)
	if err != nil || s == nil {
		return def, err
	}
	return *s, nil
}

// Int accepts any whole JSON number.
func (c MethodCall) Int(key string) (*int, error) {
	v, ok := c.raw(key)
	if !ok {
		return nil, nil
	}

	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidArgument, key)
		}
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidArgument, key)
		}
		n = int(i)
	default:
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidArgument, key)
	}
	return &n, nil
}

func (c MethodCall) Bool(key string) (*bool, error) {
	v, ok := c.raw(key)
	if !ok {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a boolean", ErrInvalidArgument, key)
	}
	return &b, nil
}

func (c MethodCall) RequiredBool(key string) (bool, error) {
	b, err := c.Bool(key)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	return *b, nil
}

// Flag reads an optional boolean that defaults to false.
func (c MethodCall) Flag(key string) (bool, error) {
	b, err := c.Bool(key)
	if err != nil || b == nil {
		return false, err
	}
	return *b, nil
}
