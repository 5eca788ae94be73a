package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetExpire(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 50*time.Millisecond))

	raw, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), raw)

	time.Sleep(60 * time.Millisecond)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after its ttl")
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetOrFetch_CachesValue(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "fresh", nil
	}

	v, err := GetOrFetch(ctx, c, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	v, err = GetOrFetch(ctx, c, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, calls, "second call must be served from cache")
}

func TestGetOrFetch_RefetchesAfterTTL(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, err := GetOrFetch(ctx, c, "k", 30*time.Millisecond, fetch)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	v, err := GetOrFetch(ctx, c, "k", 30*time.Millisecond, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGetOrFetch_FetchErrorPropagates(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	wantErr := errors.New("remote down")
	_, err := GetOrFetch(context.Background(), c, "k", time.Minute, func(context.Context) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
