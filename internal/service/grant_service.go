package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"grant-core/internal/event"
	"grant-core/internal/model"
	"grant-core/internal/service/chain"
	"grant-core/internal/service/ledger"
	"grant-core/internal/service/mq"
	"grant-core/pkg/amount"
	"grant-core/pkg/errno"
	"grant-core/pkg/logger"
	"grant-core/pkg/monitor"
	"grant-core/pkg/safe_random"
	"grant-core/pkg/utils/lock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mode 执行模式
type Mode string

const (
	ModeLive      Mode = "live"
	ModeSimulated Mode = "mock"
)

const (
	DefaultReason  = "Grant"
	publishTimeout = 3 * time.Second
)

// CreateGrantInput 对应 POST /grants 的请求体
type CreateGrantInput struct {
	Recipient     string
	Amount        string // 仅模拟模式使用
	Reason        string
	FundingTxHash string
	Grantor       string // 显式指定时覆盖链上的发送方
}

type GrantResult struct {
	Grant       model.Grant
	ExplorerURL string
}

// GrantOptions 由 main 从配置组装
type GrantOptions struct {
	FeePercent        int64
	TreasuryAddress   string
	ExplorerURL       string
	DefaultMockAmount *big.Int
	MockSender        string
	DefaultReason     string
	ChainTimeout      time.Duration
	LockTTL           time.Duration
	EventTopic        string
}

// GrantService 校验资金交易 -> 计算手续费 -> 出账 -> 记账
type GrantService struct {
	opts     GrantOptions
	chain    chain.Provider
	ledger   *ledger.Ledger
	locker   lock.DistributedLock
	producer mq.Producer

	newID func() string
	now   func() time.Time
	log   *zap.Logger
}

func NewGrantService(opts GrantOptions, provider chain.Provider, l *ledger.Ledger, locker lock.DistributedLock, producer mq.Producer) *GrantService {
	if opts.DefaultReason == "" {
		opts.DefaultReason = DefaultReason
	}
	if opts.DefaultMockAmount == nil {
		opts.DefaultMockAmount = amount.MustParse("0.01")
	}
	if opts.MockSender == "" {
		opts.MockSender = "0x0000000000000000000000000000000000000000"
	}
	if opts.ChainTimeout <= 0 {
		opts.ChainTimeout = 30 * time.Second
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 2 * time.Minute
	}
	// 锁必须覆盖整段链上调用，否则过期后同一笔资金可能被重复出账
	if opts.LockTTL <= opts.ChainTimeout {
		opts.LockTTL = 2 * opts.ChainTimeout
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	if producer == nil {
		producer = mq.NopProducer{}
	}
	return &GrantService{
		opts:     opts,
		chain:    provider,
		ledger:   l,
		locker:   locker,
		producer: producer,
		newID:    uuid.NewString,
		now:      time.Now,
		log:      logger.Named("grant"),
	}
}

func (s *GrantService) FeePercent() int64 { return s.opts.FeePercent }

func (s *GrantService) TreasuryAddress() string { return s.opts.TreasuryAddress }

func (s *GrantService) SigningEnabled() bool { return s.chain.CanSend() }

// ExplorerTxURL 区块浏览器交易链接
func (s *GrantService) ExplorerTxURL(hash string) string {
	return strings.TrimRight(s.opts.ExplorerURL, "/") + "/tx/" + hash
}

// ComputeSplit fee = floor(gross * feePercent / 100)，net = gross - fee
func ComputeSplit(gross *big.Int, feePercent int64) (fee, net *big.Int) {
	fee = new(big.Int).Mul(gross, big.NewInt(feePercent))
	fee.Quo(fee, big.NewInt(100))
	net = new(big.Int).Sub(gross, fee)
	return fee, net
}

// funding 资金交易校验结果
type funding struct {
	gross  *big.Int
	sender string
}

// CreateGrant 处理一笔 grant 请求，任何一步失败都不会写入账本
func (s *GrantService) CreateGrant(ctx context.Context, in CreateGrantInput, mode Mode) (*GrantResult, error) {
	res, err := s.createGrant(ctx, in, mode)
	if err != nil {
		monitor.RecordGrantFailure(strconv.Itoa(errno.Decode(err).Code))
		return nil, err
	}
	return res, nil
}

func (s *GrantService) createGrant(ctx context.Context, in CreateGrantInput, mode Mode) (*GrantResult, error) {
	// 1. 参数校验
	in.Recipient = strings.TrimSpace(in.Recipient)
	in.FundingTxHash = strings.TrimSpace(in.FundingTxHash)
	in.Grantor = strings.TrimSpace(in.Grantor)
	if in.Recipient == "" || in.FundingTxHash == "" {
		return nil, errno.ErrMissingField
	}
	if !s.chain.IsValidAddress(in.Recipient) {
		return nil, errno.ErrInvalidAddress.WithMessage("Invalid recipient address")
	}
	if in.Grantor != "" && !s.chain.IsValidAddress(in.Grantor) {
		return nil, errno.ErrInvalidAddress.WithMessage("Invalid grantor address")
	}

	// 2. 同一笔资金交易串行处理，关闭 "检查 -> 写入" 之间的竞态窗口
	lockKey := "grant:funding:" + strings.ToLower(in.FundingTxHash)
	token, locked, err := s.locker.Acquire(ctx, lockKey, s.opts.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("获取资金交易锁失败: %w", err)
	}
	if !locked {
		return nil, errno.ErrGrantInProgress
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
			s.log.Warn("释放资金交易锁失败", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	// 3. 幂等检查
	if existing, ok := s.ledger.FindByFundingTx(in.FundingTxHash); ok {
		return nil, ledger.DuplicateError(existing.ID)
	}

	chainCtx, cancel := context.WithTimeout(ctx, s.opts.ChainTimeout)
	defer cancel()

	// 4. 资金校验
	var fund *funding
	if mode == ModeSimulated {
		fund, err = s.simulateFunding(in)
	} else {
		fund, err = s.verifyFunding(chainCtx, in.FundingTxHash)
	}
	if err != nil {
		return nil, err
	}
	if fund.gross.Sign() <= 0 {
		return nil, errno.ErrInvalidAmount.WithMessage("Grant amount must be greater than zero")
	}

	// 5. 手续费拆分
	fee, net := ComputeSplit(fund.gross, s.opts.FeePercent)

	// 6. 出账
	distributionHash, err := s.distribute(chainCtx, in.Recipient, net, mode)
	if err != nil {
		return nil, err
	}

	// 7. 记账
	grantor := in.Grantor
	if grantor == "" {
		grantor = fund.sender
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = s.opts.DefaultReason
	}

	g := model.Grant{
		ID:                 s.newID(),
		Recipient:          strings.ToLower(in.Recipient),
		Grantor:            strings.ToLower(grantor),
		Reason:             reason,
		GrossAmount:        amount.ToDecimal(fund.gross),
		Fee:                amount.ToDecimal(fee),
		NetAmount:          amount.ToDecimal(net),
		FundingTxHash:      in.FundingTxHash,
		DistributionTxHash: distributionHash,
		Status:             model.GrantStatusCompleted,
		Mock:               mode == ModeSimulated,
		CreatedAt:          s.now().UTC(),
	}
	if err := s.ledger.Insert(g); err != nil {
		// 锁失效 (例如 Redis TTL 过期) 时由账本的原子写入兜底，此时出账已经发生
		s.log.Error("grant 记账失败",
			zap.String("funding_tx", in.FundingTxHash),
			zap.String("distribution_tx", distributionHash),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("grant 完成",
		zap.String("grant_id", g.ID),
		zap.String("mode", string(mode)),
		zap.String("recipient", g.Recipient),
		zap.String("grantor", g.Grantor),
		zap.String("gross", amount.FormatDecimal(g.GrossAmount)),
		zap.String("net", amount.FormatDecimal(g.NetAmount)),
		zap.String("funding_tx", g.FundingTxHash),
		zap.String("distribution_tx", g.DistributionTxHash))

	// 8. 事件与指标，失败不影响结果
	s.afterCommit(ctx, g, mode)

	return &GrantResult{Grant: g, ExplorerURL: s.ExplorerTxURL(distributionHash)}, nil
}

func (s *GrantService) simulateFunding(in CreateGrantInput) (*funding, error) {
	gross := new(big.Int).Set(s.opts.DefaultMockAmount)
	if strings.TrimSpace(in.Amount) != "" {
		v, err := amount.Parse(in.Amount)
		if err != nil {
			return nil, err
		}
		gross = v
	}

	sender := in.Grantor
	if sender == "" {
		sender = s.opts.MockSender
	}
	return &funding{gross: gross, sender: sender}, nil
}

func (s *GrantService) verifyFunding(ctx context.Context, hash string) (*funding, error) {
	// a. 交易
	tx, err := s.chain.GetTransaction(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("查询资金交易失败: %w", err)
	}
	if tx == nil {
		return nil, errno.ErrTxNotFound
	}

	// b. 回执
	receipt, err := s.chain.GetReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("查询资金交易回执失败: %w", err)
	}
	if !receipt.Succeeded() {
		return nil, errno.ErrTxNotConfirmed
	}

	// c. 收款方必须是金库
	treasury := s.opts.TreasuryAddress
	if treasury == "" {
		return nil, errno.ErrDistributionUnavailable.WithMessage("Treasury address not configured")
	}
	if !strings.EqualFold(tx.To, treasury) {
		return nil, errno.ErrWrongDestination.WithDetail(map[string]string{
			"expected": strings.ToLower(treasury),
			"actual":   strings.ToLower(tx.To),
		})
	}

	// d. 金额与发送方
	gross := new(big.Int)
	if tx.Value != nil {
		gross.Set(tx.Value)
	}
	return &funding{gross: gross, sender: tx.From}, nil
}

func (s *GrantService) distribute(ctx context.Context, recipient string, net *big.Int, mode Mode) (string, error) {
	if mode == ModeSimulated {
		return safe_random.TxHash()
	}

	if !s.chain.CanSend() {
		return "", errno.ErrDistributionUnavailable
	}

	started := time.Now()
	hash, err := s.chain.SendValue(ctx, recipient, net)
	if err != nil {
		monitor.ObserveDistribution("failure", started)
		s.log.Error("出账失败", zap.String("recipient", recipient), zap.Error(err))
		return "", errno.ErrDistributionFailed.WithMessage("Distribution failed: " + err.Error())
	}
	monitor.ObserveDistribution("success", started)
	return hash, nil
}

func (s *GrantService) afterCommit(ctx context.Context, g model.Grant, mode Mode) {
	monitor.RecordGrant(string(mode), amount.ToEther(g.GrossAmount), amount.ToEther(g.Fee))

	payload, err := json.Marshal(event.FromGrant(g))
	if err != nil {
		s.log.Error("序列化 grant 事件失败", zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.producer.Publish(pubCtx, s.opts.EventTopic, g.ID, payload); err != nil {
		s.log.Warn("发布 grant 事件失败", zap.String("grant_id", g.ID), zap.Error(err))
	}
}

// IsDuplicate 判断错误是否为重复资金交易，返回已有 grant 的 id
func IsDuplicate(err error) (string, bool) {
	if !errors.Is(err, errno.ErrDuplicateFunding) {
		return "", false
	}
	detail, _ := errno.Decode(err).Detail.(map[string]string)
	return detail["grantId"], true
}

// IsValidAddress 供查询接口复用链上地址校验
func (s *GrantService) IsValidAddress(addr string) bool {
	return s.chain.IsValidAddress(addr)
}
