package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-api-service/internal/domain/user"
)

func strPtr(s string) *string { return &s }

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		ID:        1,
		Username:  "johndoe",
		FirstName: strPtr("John"),
		LastName:  strPtr("Doe"),
		Email:     "john@example.com",
		IsActive:  true,
	}
}

func TestRedisUserCache_SetGet_Success(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	snap := testSnapshot()
	require.NoError(t, cache.Set(context.Background(), snap))

	got := cache.GetByID(context.Background(), 1)
	require.NotNil(t, got)
	assert.Equal(t, snap, got)
}

func TestRedisUserCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	assert.Nil(t, cache.GetByID(context.Background(), 999))
}

func TestRedisUserCache_Get_NilOptionalNames(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	snap := testSnapshot()
	snap.FirstName = nil
	snap.LastName = nil
	require.NoError(t, cache.Set(context.Background(), snap))

	got := cache.GetByID(context.Background(), 1)
	require.NotNil(t, got)
	assert.Nil(t, got.FirstName)
	assert.Nil(t, got.LastName)
}

func TestRedisUserCache_Get_CorruptedPayload(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	require.NoError(t, mr.Set("users:1", "\xc1"))

	assert.Nil(t, cache.GetByID(context.Background(), 1))
}

func TestRedisUserCache_Get_WrongShapePayload(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	kv := NewKV(client, logger)
	cache := NewRedisUserCache(kv, 10*time.Minute, 300*time.Millisecond, logger)

	// Decodes fine but cannot be mapped to a snapshot
	require.NoError(t, kv.Set(context.Background(), "users:1", []any{"nope"}, time.Minute))

	assert.Nil(t, cache.GetByID(context.Background(), 1))
}

func TestRedisUserCache_Get_StoreUnreachable(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	mr.Close()

	// Transport failure is absorbed as a miss, never an error
	assert.Nil(t, cache.GetByID(context.Background(), 1))
}

func TestRedisUserCache_Set_Nil(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	err := cache.Set(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil snapshot")
}

func TestRedisUserCache_Set_Unreachable(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	mr.Close()

	// Set propagates the failure so the caller decides policy
	assert.Error(t, cache.Set(context.Background(), testSnapshot()))
}

func TestRedisUserCache_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(NewKV(client, logger), 10*time.Minute, 300*time.Millisecond, logger)

	require.NoError(t, cache.Set(context.Background(), testSnapshot()))
	require.NotNil(t, cache.GetByID(context.Background(), 1))

	mr.FastForward(10*time.Minute + time.Second)

	assert.Nil(t, cache.GetByID(context.Background(), 1))
}
