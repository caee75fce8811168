// Package whitelist 带 TTL 的白名单缓存，刷新失败时降级为旧数据或空集合
package whitelist

import (
	"context"
	"strings"
	"sync"
	"time"

	"grant-core/pkg/cache"
	"grant-core/pkg/logger"
	"grant-core/pkg/monitor"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 5 * time.Minute

	// snapshotKey 最近一次成功拉取的白名单，多实例之间共享
	snapshotKey = "whitelist:snapshot"
)

// Snapshot 共享快照的存储格式
type Snapshot struct {
	Addresses []string  `json:"addresses"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Options struct {
	TTL time.Duration
	// Store 可选的快照存储；首次刷新失败且进程内没有旧数据时从这里兜底
	Store cache.Cache
}

// Gate 白名单判定
// 读多写少：读走 RWMutex，过期后的并发刷新通过 singleflight 合并为一次请求
type Gate struct {
	source Source
	ttl    time.Duration
	store  cache.Cache

	mu        sync.RWMutex
	set       map[string]struct{} // nil 表示还没有任何可用数据
	fetchedAt time.Time

	group singleflight.Group
	now   func() time.Time
	log   *zap.Logger
}

func NewGate(source Source, opts Options) *Gate {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gate{
		source: source,
		ttl:    ttl,
		store:  opts.Store,
		now:    time.Now,
		log:    logger.Named("whitelist"),
	}
}

// IsAllowed 地址是否在白名单内 (大小写不敏感)
func (g *Gate) IsAllowed(ctx context.Context, address string) bool {
	addr := strings.ToLower(strings.TrimSpace(address))
	if addr == "" {
		return false
	}
	_, ok := g.current(ctx)[addr]
	return ok
}

// Refresh 强制刷新，定时任务预热用
func (g *Gate) Refresh(ctx context.Context) error {
	_, err, _ := g.group.Do("refresh", func() (interface{}, error) {
		return g.refresh(ctx)
	})
	return err
}

// Size 当前缓存的地址数
func (g *Gate) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.set)
}

func (g *Gate) current(ctx context.Context) map[string]struct{} {
	g.mu.RLock()
	if g.set != nil && !g.fetchedAt.IsZero() && g.now().Sub(g.fetchedAt) < g.ttl {
		set := g.set
		g.mu.RUnlock()
		return set
	}
	g.mu.RUnlock()

	v, _, _ := g.group.Do("refresh", func() (interface{}, error) {
		return g.refresh(ctx)
	})
	return v.(map[string]struct{})
}

// refresh 总是返回一个可用的集合；error 只用来上报刷新失败
func (g *Gate) refresh(ctx context.Context) (map[string]struct{}, error) {
	// 合并后的刷新不应因为某一个调用方取消而失败
	ctx = context.WithoutCancel(ctx)

	addrs, err := g.source.Fetch(ctx)
	if err != nil {
		monitor.RecordWhitelistRefresh("failure", 0)
		return g.fallback(ctx, err), err
	}

	set := toSet(addrs)

	g.mu.Lock()
	g.set = set
	g.fetchedAt = g.now()
	g.mu.Unlock()

	monitor.RecordWhitelistRefresh("success", len(set))
	g.log.Debug("白名单已刷新", zap.Int("size", len(set)))

	if g.store != nil {
		snap := Snapshot{Addresses: addrs, FetchedAt: g.now().UTC()}
		if err := g.store.Set(ctx, snapshotKey, snap, cache.NoExpiration); err != nil {
			g.log.Warn("写入白名单快照失败", zap.Error(err))
		}
	}
	return set, nil
}

// fallback 依次尝试: 进程内旧数据 -> 共享快照 -> 空集合 (全部拒绝)
func (g *Gate) fallback(ctx context.Context, cause error) map[string]struct{} {
	g.mu.RLock()
	prev := g.set
	g.mu.RUnlock()
	if prev != nil {
		g.log.Warn("白名单刷新失败，继续使用旧数据", zap.Error(cause), zap.Int("size", len(prev)))
		return prev
	}

	if g.store != nil {
		snap, ok, err := cache.Load[Snapshot](ctx, g.store, snapshotKey)
		if err != nil {
			g.log.Warn("读取白名单快照失败", zap.Error(err))
		}
		if ok {
			set := toSet(snap.Addresses)
			g.mu.Lock()
			if g.set == nil {
				g.set = set
			}
			g.mu.Unlock()
			g.log.Warn("白名单刷新失败，使用共享快照",
				zap.Error(cause),
				zap.Int("size", len(set)),
				zap.Duration("age", g.now().Sub(snap.FetchedAt)),
			)
			return set
		}
	}

	g.log.Error("白名单刷新失败且无可用缓存，拒绝所有请求", zap.Error(cause))
	return map[string]struct{}{}
}

func toSet(addrs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			set[a] = struct{}{}
		}
	}
	return set
}
