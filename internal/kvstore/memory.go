package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

// DefaultMemorySize is the freecache arena size; the minimum freecache accepts is 512KB.
const DefaultMemorySize = 1024 * 1024

// MemoryStore keeps values in process memory. Entries do not expire but may be
// evicted once the arena is full, and nothing survives a restart.
type MemoryStore struct {
	cache *freecache.Cache
}

func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryStore{
		cache: freecache.NewCache(size),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	val, err := s.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("memory get %s: %w", key, err)
	}
	return string(val), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if err := s.cache.Set([]byte(key), []byte(value), 0); err != nil {
		return fmt.Errorf("memory set %s: %w", key, err)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Del([]byte(key))
	return nil
}
