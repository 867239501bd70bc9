package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "user-api-service/internal/domain/user"
)

// UserCache defines the caching operations for user snapshots.
type UserCache interface {
	// GetByID retrieves a cached user snapshot. It returns nil on cache
	// miss and on any cache failure; the cache is a best-effort
	// accelerator and must never fail a read.
	GetByID(ctx context.Context, id int64) *domain.Snapshot

	// Set stores a snapshot with the configured TTL. Errors are returned
	// so the caller can decide whether to await or ignore them.
	Set(ctx context.Context, snap *domain.Snapshot) error
}

// RedisUserCache implements UserCache on top of the KV adapter.
// Every operation runs under a short timeout so a degraded cache adds
// bounded latency instead of stalling the read path.
type RedisUserCache struct {
	kv        *KV
	ttl       time.Duration
	opTimeout time.Duration
	log       *zap.Logger
}

// NewRedisUserCache creates a Redis-backed user snapshot cache.
func NewRedisUserCache(kv *KV, ttl, opTimeout time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{
		kv:        kv,
		ttl:       ttl,
		opTimeout: opTimeout,
		log:       log,
	}
}

// cacheKey generates the namespaced key for a user ID.
func (c *RedisUserCache) cacheKey(id int64) string {
	return fmt.Sprintf("users:%d", id)
}

// GetByID retrieves a user snapshot from the cache. A miss, a timeout,
// an unreachable store and an unmappable payload all collapse to nil.
func (c *RedisUserCache) GetByID(ctx context.Context, id int64) *domain.Snapshot {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	value, ok, err := c.kv.Get(ctx, c.cacheKey(id))
	if err != nil {
		c.log.Warn("cache read failed, treating as miss",
			zap.Int64("user_id", id),
			zap.Error(err),
		)
		return nil
	}
	if !ok {
		return nil
	}

	snap, err := snapshotFromPayload(value)
	if err != nil {
		c.log.Warn("failed to map cached user, treating as miss",
			zap.Int64("user_id", id),
			zap.Error(err),
		)
		return nil
	}

	c.log.Debug("cache hit", zap.Int64("user_id", id))
	return snap
}

// Set stores a user snapshot under its namespaced key.
func (c *RedisUserCache) Set(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("cannot cache nil snapshot")
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return c.kv.Set(ctx, c.cacheKey(snap.ID), snapshotPayload(snap), c.ttl)
}

// snapshotPayload flattens a snapshot into the cached field map.
func snapshotPayload(snap *domain.Snapshot) map[string]any {
	return map[string]any{
		"id":         snap.ID,
		"username":   snap.Username,
		"first_name": snap.FirstName,
		"last_name":  snap.LastName,
		"email":      snap.Email,
		"is_active":  snap.IsActive,
	}
}

// snapshotFromPayload rebuilds a snapshot from a decoded cache payload.
func snapshotFromPayload(value any) (*domain.Snapshot, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cached payload is %T, expected a field map", value)
	}

	id, ok := asInt64(m["id"])
	if !ok {
		return nil, fmt.Errorf("cached payload has invalid id field %v", m["id"])
	}
	username, ok := m["username"].(string)
	if !ok {
		return nil, fmt.Errorf("cached payload has invalid username field %v", m["username"])
	}
	email, ok := m["email"].(string)
	if !ok {
		return nil, fmt.Errorf("cached payload has invalid email field %v", m["email"])
	}
	isActive, ok := m["is_active"].(bool)
	if !ok {
		return nil, fmt.Errorf("cached payload has invalid is_active field %v", m["is_active"])
	}

	return &domain.Snapshot{
		ID:        id,
		Username:  username,
		FirstName: asStringPtr(m["first_name"]),
		LastName:  asStringPtr(m["last_name"]),
		Email:     email,
		IsActive:  isActive,
	}, nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func asStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}
