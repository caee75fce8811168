package lock

import (
	"context"
	"fmt"
	"time"

	"grant-core/pkg/safe_random"

	"github.com/redis/go-redis/v9"
)

// releaseScript 值等于凭证时才 DEL，TTL 过期后不会误删其他持有者的锁
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisClient RedisLock 用到的命令子集，*redis.Client 满足该接口
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLock 基于 Redis SET NX 的实现，获取失败立即返回 false
type RedisLock struct {
	client RedisClient
	prefix string
}

func NewRedisLock(client RedisClient) *RedisLock {
	return &RedisLock{client: client, prefix: "lock:"}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if ttl <= 0 {
		return "", false, fmt.Errorf("redis lock %s: ttl must be positive", key)
	}

	// 1. 每次获取生成独立凭证
	token, err := safe_random.Token()
	if err != nil {
		return "", false, err
	}

	// 2. SET lock:<key> <token> NX PX ttl
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisLock) Release(ctx context.Context, key string, token string) error {
	n, err := l.client.Eval(ctx, releaseScript, []string{l.prefix + key}, token).Int64()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}
