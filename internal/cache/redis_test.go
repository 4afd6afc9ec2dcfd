package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluxolabs/pluxo-backend/internal/config"
)

type testStruct struct {
	Name string
	Age  int
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)

	expected := testStruct{Name: "Alice", Age: 30}
	err := cache.Set("user:1", expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get("user:1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Set("k", testStruct{Name: "Bob"}, time.Minute))
	require.NoError(t, cache.Invalidate("k"))

	var out testStruct
	found, err := cache.Get("k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIncrWindow(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	for i := int64(1); i <= 10; i++ {
		n, err := cache.IncrWindow(ctx, "ratelimit:user1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	// 11-й вызов в том же окне
	n, err := cache.IncrWindow(ctx, "ratelimit:user1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	// окно истекло — счёт начинается заново
	mr.FastForward(61 * time.Second)
	n, err = cache.IncrWindow(ctx, "ratelimit:user1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIncrWindow_SeparateIdentities(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	n1, err := cache.IncrWindow(ctx, "ratelimit:user1", time.Minute)
	require.NoError(t, err)
	n2, err := cache.IncrWindow(ctx, "ratelimit:user2", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, int64(1), n1)
	assert.Equal(t, int64(1), n2)
}
