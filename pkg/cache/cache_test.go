package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Addresses []string  `json:"addresses"`
	FetchedAt time.Time `json:"fetched_at"`
}

func TestMemoryCacheCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	in := snapshot{Addresses: []string{"0xabc"}, FetchedAt: time.Unix(100, 0).UTC()}
	require.NoError(t, c.Set(ctx, "k", in, NoExpiration))
	in.Addresses[0] = "mutated"

	var out snapshot
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, []string{"0xabc"}, out.Addresses)
	assert.True(t, out.FetchedAt.Equal(time.Unix(100, 0)))

	require.NoError(t, c.Delete(ctx, "k"))
	assert.True(t, errors.Is(c.Get(ctx, "k", &out), ErrCacheMiss))
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "k", 1, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var out int
	assert.True(t, errors.Is(c.Get(ctx, "k", &out), ErrCacheMiss))
}

func TestMultiLevelCacheBackfillsLocal(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote := NewMemoryCache(time.Minute, time.Minute)
	m := NewMultiLevelCache(local, remote, time.Minute)

	// 模拟其他实例写入 L2
	require.NoError(t, remote.Set(ctx, "k", snapshot{Addresses: []string{"0x1"}}, NoExpiration))

	var out snapshot
	require.NoError(t, m.Get(ctx, "k", &out))
	assert.Equal(t, []string{"0x1"}, out.Addresses)

	var fromLocal snapshot
	require.NoError(t, local.Get(ctx, "k", &fromLocal))
	assert.Equal(t, out, fromLocal)

	require.NoError(t, m.Delete(ctx, "k"))
	assert.Error(t, m.Get(ctx, "k", &out))
}
