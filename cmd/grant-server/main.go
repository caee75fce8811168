package main

import (
	"context"
	"strings"
	"time"

	"grant-core/internal/server"
	"grant-core/internal/service"
	"grant-core/internal/service/chain"
	"grant-core/internal/service/ledger"
	"grant-core/internal/service/mq"
	"grant-core/internal/service/whitelist"

	"grant-core/pkg/amount"
	"grant-core/pkg/cache"
	"grant-core/pkg/config"
	"grant-core/pkg/database"
	"grant-core/pkg/logger"
	"grant-core/pkg/utils/lock"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title Grant Core API
// @version 1.0
// @description Grant service: verifies funding transactions on Base and forwards the net amount to recipients.

// @BasePath /
func main() {
	// 0. 初始化 Config
	config.Init()
	cfg := config.Global

	// 1. 初始化 Logger
	logger.Init(cfg.App.Env)
	defer logger.Sync()

	// 2. 连接 Redis (可选: 分布式锁 / Redis Stream / 白名单共享快照)
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		var err error
		rdb, err = database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Redis 连接失败", zap.Error(err))
		}
		defer rdb.Close()
	}

	// 3. 加载出账签名凭证
	signer, err := chain.LoadSigner(chain.Credentials{
		PrivateKey:       cfg.Chain.PrivateKey,
		KeystorePath:     cfg.Chain.KeystorePath,
		KeystorePassword: cfg.Chain.KeystorePassword,
		Mnemonic:         cfg.Chain.Mnemonic,
		DerivationPath:   cfg.Chain.DerivationPath,
	})
	if err != nil {
		logger.Fatal("加载签名凭证失败", zap.Error(err))
	}
	if signer == nil {
		logger.Warn("⚠️  未配置 CHAIN_PRIVATE_KEY / CHAIN_KEYSTORE_PATH / CHAIN_MNEMONIC，真实分发已禁用，仅支持模拟模式")
	}

	// 4. 连接链节点
	dialCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	provider, err := chain.Dial(dialCtx, cfg.Chain.RpcUrl, signer)
	cancel()
	if err != nil {
		logger.Fatal("初始化链访问失败", zap.Error(err))
	}

	// 4.1 金库地址默认为签名账户
	treasury := cfg.Chain.TreasuryAddress
	if signerAddr := provider.SignerAddress(); signerAddr != "" {
		if treasury == "" {
			treasury = signerAddr
		} else if !strings.EqualFold(treasury, signerAddr) {
			logger.Warn("金库地址与签名账户不一致，出账将从签名账户发出",
				zap.String("treasury", treasury), zap.String("signer", signerAddr))
		}
	}
	if treasury == "" {
		logger.Warn("未配置金库地址，真实模式的资金校验将全部失败")
	} else if !provider.IsValidAddress(treasury) {
		logger.Fatal("金库地址无效", zap.String("treasury", treasury))
	}

	// 5. 资金交易锁
	var locker lock.DistributedLock = lock.NewKeyedMutex()
	if cfg.Lock.Type == "redis" {
		locker = lock.NewRedisLock(rdb)
	}

	// 6. 事件生产者
	var producer mq.Producer = mq.NopProducer{}
	switch cfg.MQ.Type {
	case "redis":
		producer = mq.NewRedisProducer(rdb, 10000)
	case "kafka":
		producer = mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.MQ.Topic)
	}
	defer producer.Close()

	// 7. Grant 核心服务
	mockAmount, err := amount.Parse(cfg.Grant.DefaultMockAmount)
	if err != nil {
		logger.Fatal("grant.default_mock_amount 无效", zap.Error(err))
	}
	grantLedger := ledger.New()
	grantService := service.NewGrantService(service.GrantOptions{
		FeePercent:        cfg.Grant.FeePercent,
		TreasuryAddress:   treasury,
		ExplorerURL:       cfg.Chain.ExplorerUrl,
		DefaultMockAmount: mockAmount,
		MockSender:        cfg.Grant.MockSender,
		DefaultReason:     cfg.Grant.DefaultReason,
		ChainTimeout:      cfg.Chain.Timeout,
		LockTTL:           cfg.Lock.TTL,
		EventTopic:        cfg.MQ.Topic,
	}, provider, grantLedger, locker, producer)

	// 8. 白名单
	deps := server.RouterDeps{
		Grants:                grantService,
		Ledger:                grantLedger,
		RecentLimit:           cfg.Grant.RecentLimit,
		WhitelistPrimaryField: cfg.Whitelist.PrimaryField,
	}
	var cronService *service.CronService
	if cfg.Whitelist.Url != "" {
		// L1: Memory, L2: Redis (共享快照)
		var store cache.Cache = cache.NewMemoryCache(cache.NoExpiration, 10*time.Minute)
		if rdb != nil {
			store = cache.NewMultiLevelCache(store, cache.NewRedisCache(rdb), cfg.Whitelist.TTL)
		}
		gate := whitelist.NewGate(
			whitelist.NewHTTPSource(cfg.Whitelist.Url, cfg.Whitelist.Timeout),
			whitelist.Options{TTL: cfg.Whitelist.TTL, Store: store},
		)
		deps.Whitelist = gate

		var cronLock lock.DistributedLock
		if rdb != nil {
			cronLock = lock.NewRedisLock(rdb)
		}
		cronService = service.NewCronService(gate, cronLock, cfg.Whitelist.RefreshSpec)
		if err := cronService.Start(); err != nil {
			logger.Fatal("启动白名单定时刷新失败", zap.Error(err))
		}
		logger.Info("白名单已启用", zap.String("url", cfg.Whitelist.Url), zap.Duration("ttl", cfg.Whitelist.TTL))
	} else {
		logger.Warn("未配置 WHITELIST_URL，写接口不做白名单校验")
	}

	// 9. 启动 HTTP
	logger.Info("Grant 服务初始化完成",
		zap.String("rpc", cfg.Chain.RpcUrl),
		zap.String("treasury", treasury),
		zap.Bool("signing_enabled", provider.CanSend()),
		zap.Int64("fee_percent", cfg.Grant.FeePercent),
		zap.String("mq", cfg.MQ.Type),
		zap.String("lock", cfg.Lock.Type))

	app := server.New(server.Config{HttpPort: cfg.App.HttpPort}, server.NewHTTPRouter(deps))
	if cronService != nil {
		app.OnShutdown(cronService.Stop)
	}
	app.Run()
}
