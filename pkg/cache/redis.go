package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix 与锁、消息流共用一个 Redis 时用来区分命名空间
const DefaultKeyPrefix = "grant-core:cache:"

// RedisClient RedisCache 用到的命令，*redis.Client 满足
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisCache struct {
	client RedisClient
	prefix string
}

func NewRedisCache(client RedisClient) *RedisCache {
	return &RedisCache{client: client, prefix: DefaultKeyPrefix}
}

// WithPrefix 替换 key 前缀，返回新实例
func (c *RedisCache) WithPrefix(prefix string) *RedisCache {
	return &RedisCache{client: c.client, prefix: prefix}
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	val, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	switch {
	case ttl == NoExpiration:
		ttl = 0 // redis: 0 表示不过期
	case ttl < 0:
		return fmt.Errorf("cache: invalid ttl %s for %s", ttl, key)
	}
	if err := c.client.Set(ctx, c.prefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, key string, target interface{}) error {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache: get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, target); err != nil {
		return fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache: del %s: %w", key, err)
	}
	return nil
}
