package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryStore struct {
	cache *lru.Cache[string, []byte]
}

// NewMemoryStore is an in-process LRU store holding up to size entries.
func NewMemoryStore(size int) (Store, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &memoryStore{cache: c}, nil
}

func (s *memoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *memoryStore) Save(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.cache.Add(key, v)
	return nil
}
