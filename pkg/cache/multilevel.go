package cache

import (
	"context"
	"time"
)

// MultiLevelCache 实现多级缓存 (L1: Memory, L2: Redis)
type MultiLevelCache struct {
	local    Cache
	remote   Cache
	localTTL time.Duration
}

// NewMultiLevelCache localTTL 为 L1 回写的最长存活时间，防止 L1 脏数据太久
func NewMultiLevelCache(local, remote Cache, localTTL time.Duration) *MultiLevelCache {
	return &MultiLevelCache{
		local:    local,
		remote:   remote,
		localTTL: localTTL,
	}
}

func (m *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	// 同时写入 L1 和 L2，L1 失败不影响结果
	_ = m.local.Set(ctx, key, value, m.l1TTL(ttl))
	return m.remote.Set(ctx, key, value, ttl)
}

func (m *MultiLevelCache) Get(ctx context.Context, key string, target interface{}) error {
	// 1. 查 L1
	if err := m.local.Get(ctx, key, target); err == nil {
		return nil
	}

	// 2. 查 L2，命中后回写 L1
	if err := m.remote.Get(ctx, key, target); err != nil {
		return err
	}
	_ = m.local.Set(ctx, key, target, m.localTTL)
	return nil
}

func (m *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = m.local.Delete(ctx, key)
	return m.remote.Delete(ctx, key)
}

func (m *MultiLevelCache) l1TTL(ttl time.Duration) time.Duration {
	if ttl == NoExpiration || ttl > m.localTTL {
		return m.localTTL
	}
	return ttl
}
