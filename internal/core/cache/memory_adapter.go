package cache

import (
	"context"
	"fmt"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cleanupInterval is how often expired entries are purged from memory.
const cleanupInterval = time.Minute

// MemoryAdapter is an in-process Cache used when no Redis URL is configured.
type MemoryAdapter struct {
	store *gocache.Cache
}

// NewMemoryAdapter creates an empty in-memory cache.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get returns a copy of the stored value.
func (m *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	return append([]byte(nil), v.([]byte)...), nil
}

// Set stores a copy of value. A ttl of 0 keeps it until deleted.
func (m *MemoryAdapter) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.store.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete removes key.
func (m *MemoryAdapter) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

// Keys matches unexpired keys against a glob pattern.
func (m *MemoryAdapter) Keys(_ context.Context, pattern string) ([]string, error) {
	var keys []string
	for k := range m.store.Items() {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
		}
		if ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Ping always succeeds.
func (m *MemoryAdapter) Ping(context.Context) error {
	return nil
}

// Close drops all entries.
func (m *MemoryAdapter) Close() error {
	m.store.Flush()
	return nil
}
