package lock

import (
	"context"
	"sync"
	"time"
)

// KeyedMutex 进程内按 key 互斥的锁
// 与 RedisLock 不同，Acquire 会阻塞等待直到获得锁或 ctx 结束
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch      chan struct{} // 容量为 1 的信号量
	waiters int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot)}
}

// Acquire 进程内互斥不需要凭证，返回空字符串
func (l *KeyedMutex) Acquire(ctx context.Context, key string, _ time.Duration) (string, bool, error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.waiters++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return "", true, nil
	case <-ctx.Done():
		l.mu.Lock()
		l.leave(key, s)
		l.mu.Unlock()
		return "", false, ctx.Err()
	}
}

func (l *KeyedMutex) Release(_ context.Context, key string, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		return ErrNotHeld
	}
	select {
	case <-s.ch:
	default:
		return ErrNotHeld
	}
	l.leave(key, s)
	return nil
}

// leave 调用方需持有 l.mu；没有等待者时回收 slot，避免 map 无限增长
func (l *KeyedMutex) leave(key string, s *slot) {
	s.waiters--
	if s.waiters == 0 {
		delete(l.slots, key)
	}
}
