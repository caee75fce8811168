package service

import (
	"context"
	"time"

	"grant-core/internal/service/whitelist"
	"grant-core/pkg/logger"
	"grant-core/pkg/utils/lock"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const whitelistLockKey = "cron:lock:whitelist_refresh"

type CronService struct {
	cron   *cron.Cron
	gate   *whitelist.Gate
	locker lock.DistributedLock
	spec   string
}

// NewCronService spec 为空时不注册白名单预热任务
func NewCronService(gate *whitelist.Gate, locker lock.DistributedLock, spec string) *CronService {
	return &CronService{
		cron:   cron.New(),
		gate:   gate,
		locker: locker,
		spec:   spec,
	}
}

func (s *CronService) Start() error {
	if s.gate != nil && s.spec != "" {
		if _, err := s.cron.AddFunc(s.spec, s.RefreshWhitelist); err != nil {
			return err
		}
		// 启动时预热一次，避免第一个请求承担拉取延迟
		go s.RefreshWhitelist()
	}

	s.cron.Start()
	logger.Info("Cron Service started", zap.String("whitelist_spec", s.spec))
	return nil
}

func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cron Service stopped")
}

// RefreshWhitelist 定时刷新白名单
func (s *CronService) RefreshWhitelist() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. 多实例部署时只让一个节点拉取，其他节点依赖共享快照或请求时懒加载
	if s.locker != nil {
		token, locked, err := s.locker.Acquire(ctx, whitelistLockKey, 30*time.Second)
		if err != nil || !locked {
			logger.Debug("RefreshWhitelist: 获取锁失败或已有实例在运行")
			return
		}
		defer s.locker.Release(context.Background(), whitelistLockKey, token)
	}

	// 2. 刷新
	if err := s.gate.Refresh(ctx); err != nil {
		logger.Warn("白名单定时刷新失败", zap.Error(err))
		return
	}
	logger.Debug("白名单定时刷新完成", zap.Int("size", s.gate.Size()))
}
