package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotHeld Release 时锁已过期或已被其他持有者获取
var ErrNotHeld = errors.New("lock not held")

// DistributedLock 定义锁接口
// 单实例部署使用 KeyedMutex，多实例部署使用 RedisLock
type DistributedLock interface {
	// Acquire 尝试获取锁
	// key: 锁的唯一标识
	// ttl: 锁的过期时间 (KeyedMutex 忽略)
	// 返回: (持有凭证, 是否成功, error)，凭证需原样传给 Release
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)

	// Release 释放锁，只有凭证匹配时才会删除
	Release(ctx context.Context, key string, token string) error
}
