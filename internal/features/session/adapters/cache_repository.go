package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"drone-pickup/internal/core/cache"
	"drone-pickup/internal/features/session/domain"
)

const sessionKeyPrefix = "session:"

// CacheSessionRepository implements ports.SessionRepository on top of the cache port.
type CacheSessionRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheSessionRepository creates a repository whose snapshots expire after ttl.
// A ttl of 0 keeps them until deleted.
func NewCacheSessionRepository(c cache.Cache, ttl time.Duration) *CacheSessionRepository {
	return &CacheSessionRepository{cache: c, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Save stores the session snapshot, refreshing its TTL.
func (r *CacheSessionRepository) Save(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.cache.Set(ctx, sessionKey(session.ID), data, r.ttl); err != nil {
		return fmt.Errorf("failed to save session to cache: %w", err)
	}
	return nil
}

// Get loads a snapshot; a missing key maps to domain.ErrSessionNotFound.
func (r *CacheSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.cache.Get(ctx, sessionKey(id))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the snapshot.
func (r *CacheSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session from cache: %w", err)
	}
	return nil
}

// IDs lists the ids of every stored snapshot.
func (r *CacheSessionRepository) IDs(ctx context.Context) ([]string, error) {
	keys, err := r.cache.Keys(ctx, sessionKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, sessionKeyPrefix))
	}
	return ids, nil
}
