// Package cache 白名单快照等小对象的缓存：进程内 (go-cache)、Redis、两级组合
// 值统一按 JSON 存取，调用方拿到的是副本
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// NoExpiration 传给 Set 表示永不过期
const NoExpiration time.Duration = -1

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get 未命中返回 ErrCacheMiss，命中时把值解码到 target
	Get(ctx context.Context, key string, target interface{}) error
	Delete(ctx context.Context, key string) error
}

// Load 按类型读取，未命中返回 ok=false 且 err 为 nil
func Load[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var v T
	err := c.Get(ctx, key, &v)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, ErrCacheMiss):
		return v, false, nil
	default:
		return v, false, err
	}
}
