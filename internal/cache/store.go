// Package cache provides the key/value persistence port used for statistics
// caching and CLI identity state, with Redis, in-memory and file backends.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store loads and saves opaque values by key. A missing key is (nil, false, nil).
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// LoadJSON decodes the value at key into v. It reports whether the key existed.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, ok, err := s.Load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it at key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return s.Save(ctx, key, data)
}
