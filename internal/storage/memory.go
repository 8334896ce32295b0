package storage

import (
	"context"

	"github.com/patrickmn/go-cache"
)

type memoryStorage struct {
	c *cache.Cache
}

// NewMemoryStorage returns an in-process storage. Values do not survive a
// restart, so it is meant for local development and tests.
func NewMemoryStorage() Storage {
	return &memoryStorage{c: cache.New(cache.NoExpiration, 0)}
}

func (s *memoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	v, found := s.c.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	b := v.([]byte)
	return append([]byte(nil), b...), nil
}

func (s *memoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.c.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
