package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// KV is a thin adapter over a Redis client storing msgpack-encoded
// values. Writes propagate failures to the caller; reads treat an
// undecodable payload as absent so cache corruption can never surface
// as a service error.
type KV struct {
	client *redis.Client
	log    *zap.Logger
}

// NewKV creates a new key-value cache adapter.
func NewKV(client *redis.Client, log *zap.Logger) *KV {
	return &KV{client: client, log: log}
}

// Set encodes value with msgpack and stores it under key with the given
// expiry. Unlike Get, failures are returned so callers can decide policy.
func (k *KV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %q: %w", key, err)
	}

	if err := k.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}

	k.log.Debug("cache value stored", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// Get fetches and decodes the value stored under key. The boolean result
// distinguishes "not cached" from a cached nil. A payload that fails to
// decode is logged at warning level and reported as absent. Transport
// errors are returned to the caller.
func (k *KV) Get(ctx context.Context, key string) (any, bool, error) {
	data, err := k.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		k.log.Debug("cache miss", zap.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %q: %w", key, err)
	}

	var value any
	if err := msgpack.Unmarshal(data, &value); err != nil {
		k.log.Warn("failed to decode cached value, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false, nil
	}

	return restoreIntKeys(value), true, nil
}

// restoreIntKeys walks a decoded value and coerces integer-like string
// map keys back to int64. Payloads written by JSON producers carry
// object keys as strings even when the original map was keyed by id.
func restoreIntKeys(v any) any {
	switch m := v.(type) {
	case map[string]any:
		numeric := 0
		for key := range m {
			if _, err := strconv.ParseInt(key, 10, 64); err == nil {
				numeric++
			}
		}
		if numeric == 0 {
			for key, val := range m {
				m[key] = restoreIntKeys(val)
			}
			return m
		}
		out := make(map[any]any, len(m))
		for key, val := range m {
			if n, err := strconv.ParseInt(key, 10, 64); err == nil {
				out[n] = restoreIntKeys(val)
			} else {
				out[key] = restoreIntKeys(val)
			}
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(m))
		for key, val := range m {
			if s, ok := key.(string); ok {
				if n, err := strconv.ParseInt(s, 10, 64); err == nil {
					out[n] = restoreIntKeys(val)
					continue
				}
			}
			out[key] = restoreIntKeys(val)
		}
		return out
	case []any:
		for i, val := range m {
			m[i] = restoreIntKeys(val)
		}
		return m
	}
	return v
}
