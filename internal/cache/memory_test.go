package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheSetGet(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "auth_abc", "user-1", time.Minute))

	val, err := c.Get(ctx, "auth_abc")
	require.NoError(t, err)
	assert.Equal(t, "user-1", val)
}

func TestInMemoryCacheMiss(t *testing.T) {
	c := NewInMemoryCache()

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInMemoryCacheExpiry(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "auth_abc", "user-1", 10*time.Millisecond))

	_, err := c.Get(ctx, "auth_abc")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = c.Get(ctx, "auth_abc")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInMemoryCacheDel(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "auth_abc", "user-1", time.Minute))
	require.NoError(t, c.Del(ctx, "auth_abc"))

	_, err := c.Get(ctx, "auth_abc")
	assert.ErrorIs(t, err, ErrMiss)

	// Deleting an absent key is not an error at the cache level.
	assert.NoError(t, c.Del(ctx, "auth_abc"))
}
