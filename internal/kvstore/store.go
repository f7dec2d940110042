package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNilValue = errors.New("nil value")

// Store is a durable string-to-string map.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Encode renders v for storage: strings are stored as-is, anything else as JSON.
func Encode(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", ErrNilValue
	case string:
		return t, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %T: %w", v, err)
	}
	return string(b), nil
}

// Decode parses a stored value as JSON, falling back to the raw string.
func Decode(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// SetValue encodes v and stores it under key.
func SetValue(ctx context.Context, s Store, key string, v any) error {
	encoded, err := Encode(v)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return s.Set(ctx, key, encoded)
}

// GetValue loads and decodes the value under key; ok is false when it is absent.
func GetValue(ctx context.Context, s Store, key string) (_ any, ok bool, err error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return Decode(raw), true, nil
}
