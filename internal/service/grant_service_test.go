package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"grant-core/internal/event"
	"grant-core/internal/service/chain"
	"grant-core/internal/service/ledger"
	"grant-core/pkg/amount"
	"grant-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	treasury  = "0x1111111111111111111111111111111111111111"
	recipient = "0x2222222222222222222222222222222222222222"
	sender    = "0x3333333333333333333333333333333333333333"
	fundingTx = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

// fakeChain 内存实现的 chain.Provider
type fakeChain struct {
	mu        sync.Mutex
	txs       map[string]*chain.Transaction
	receipts  map[string]*chain.Receipt
	canSend   bool
	sendErr   error
	sendDelay time.Duration

	sends int32
	sent  []*big.Int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		txs:      map[string]*chain.Transaction{},
		receipts: map[string]*chain.Receipt{},
		canSend:  true,
	}
}

func (f *fakeChain) addFunding(hash, from, to string, wei *big.Int, status uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(hash)
	f.txs[key] = &chain.Transaction{Hash: hash, From: from, To: to, Value: wei}
	f.receipts[key] = &chain.Receipt{Status: status, BlockNumber: big.NewInt(1)}
}

func (f *fakeChain) GetTransaction(_ context.Context, hash string) (*chain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txs[strings.ToLower(hash)], nil
}

func (f *fakeChain) GetReceipt(_ context.Context, hash string) (*chain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipts[strings.ToLower(hash)], nil
}

func (f *fakeChain) IsValidAddress(addr string) bool { return common.IsHexAddress(addr) }

func (f *fakeChain) SendValue(_ context.Context, _ string, wei *big.Int) (string, error) {
	atomic.AddInt32(&f.sends, 1)
	if f.sendDelay > 0 {
		time.Sleep(f.sendDelay)
	}
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.mu.Lock()
	f.sent = append(f.sent, new(big.Int).Set(wei))
	f.mu.Unlock()
	return "0xdistribution", nil
}

func (f *fakeChain) CanSend() bool { return f.canSend }

func (f *fakeChain) SignerAddress() string { return treasury }

// recordingProducer 记录发布的事件
type recordingProducer struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *recordingProducer) Publish(_ context.Context, _ string, _ string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func newTestService(fc *fakeChain) (*GrantService, *ledger.Ledger, *recordingProducer) {
	l := ledger.New()
	producer := &recordingProducer{}
	svc := NewGrantService(GrantOptions{
		FeePercent:      5,
		TreasuryAddress: treasury,
		ExplorerURL:     "https://basescan.org/",
		EventTopic:      "grant_events_completed",
	}, fc, l, nil, producer)
	return svc, l, producer
}

func TestComputeSplit(t *testing.T) {
	cases := []struct {
		gross string
		fee   string
		net   string
	}{
		{"10000000000000000", "500000000000000", "9500000000000000"},
		{"19", "0", "19"},
		{"20", "1", "19"},
		{"1", "0", "1"},
		{"0", "0", "0"},
		{"123456789012345678901234567890", "6172839450617283945061728394", "117283949561728394956172839496"},
	}
	for _, c := range cases {
		gross, _ := new(big.Int).SetString(c.gross, 10)
		fee, net := ComputeSplit(gross, 5)
		assert.Equal(t, c.fee, fee.String(), c.gross)
		assert.Equal(t, c.net, net.String(), c.gross)
		assert.Equal(t, gross, new(big.Int).Add(fee, net))
	}

	fee, net := ComputeSplit(big.NewInt(1000), 0)
	assert.Equal(t, int64(0), fee.Int64())
	assert.Equal(t, int64(1000), net.Int64())
}

func TestNewGrantServiceLockOutlivesChainCalls(t *testing.T) {
	svc := NewGrantService(GrantOptions{ChainTimeout: 30 * time.Second, LockTTL: time.Second}, newFakeChain(), ledger.New(), nil, nil)
	assert.Greater(t, svc.opts.LockTTL, svc.opts.ChainTimeout)

	svc = NewGrantService(GrantOptions{}, newFakeChain(), ledger.New(), nil, nil)
	assert.Equal(t, 2*time.Minute, svc.opts.LockTTL)
	assert.Equal(t, 30*time.Second, svc.opts.ChainTimeout)
}

func TestCreateGrantSimulated(t *testing.T) {
	svc, l, producer := newTestService(newFakeChain())

	res, err := svc.CreateGrant(context.Background(), CreateGrantInput{
		Recipient:     strings.ToUpper(recipient[:2]) + recipient[2:],
		Reason:        "docs",
		FundingTxHash: fundingTx,
	}, ModeSimulated)
	require.NoError(t, err)

	g := res.Grant
	assert.Equal(t, "10000000000000000", g.GrossAmount.String())
	assert.Equal(t, "500000000000000", g.Fee.String())
	assert.Equal(t, "9500000000000000", g.NetAmount.String())
	assert.True(t, g.Fee.Add(g.NetAmount).Equal(g.GrossAmount))
	assert.Equal(t, recipient, g.Recipient)
	assert.Equal(t, "0x0000000000000000000000000000000000000000", g.Grantor)
	assert.Equal(t, "docs", g.Reason)
	assert.True(t, g.Mock)
	assert.Len(t, g.DistributionTxHash, 66)
	assert.Equal(t, "https://basescan.org/tx/"+g.DistributionTxHash, res.ExplorerURL)

	stored, ok := l.Get(g.ID)
	require.True(t, ok)
	assert.Equal(t, g.FundingTxHash, stored.FundingTxHash)

	require.Len(t, producer.payloads, 1)
	assert.Contains(t, string(producer.payloads[0]), g.ID)
}

func TestCreateGrantSimulatedAmountAndGrantor(t *testing.T) {
	svc, _, _ := newTestService(newFakeChain())

	res, err := svc.CreateGrant(context.Background(), CreateGrantInput{
		Recipient:     recipient,
		Amount:        "1.5 ETH",
		FundingTxHash: fundingTx,
		Grantor:       sender,
	}, ModeSimulated)
	require.NoError(t, err)
	assert.Equal(t, amount.MustParse("1.5").String(), res.Grant.GrossAmount.String())
	assert.Equal(t, sender, res.Grant.Grantor)
	assert.Equal(t, DefaultReason, res.Grant.Reason)

	_, err = svc.CreateGrant(context.Background(), CreateGrantInput{
		Recipient: recipient, Amount: "abc", FundingTxHash: "0xother",
	}, ModeSimulated)
	assert.True(t, errors.Is(err, errno.ErrInvalidAmount))

	_, err = svc.CreateGrant(context.Background(), CreateGrantInput{
		Recipient: recipient, Amount: "0", FundingTxHash: "0xzero",
	}, ModeSimulated)
	assert.True(t, errors.Is(err, errno.ErrInvalidAmount))

	// 指数写法直接拒绝，不写入账本
	_, err = svc.CreateGrant(context.Background(), CreateGrantInput{
		Recipient: recipient, Amount: "1e1000000000", FundingTxHash: "0xhuge",
	}, ModeSimulated)
	assert.True(t, errors.Is(err, errno.ErrInvalidAmount))
	_, found := svc.ledger.FindByFundingTx("0xhuge")
	assert.False(t, found)
}

func TestCreateGrantValidation(t *testing.T) {
	svc, l, _ := newTestService(newFakeChain())
	ctx := context.Background()

	_, err := svc.CreateGrant(ctx, CreateGrantInput{FundingTxHash: fundingTx}, ModeSimulated)
	assert.True(t, errors.Is(err, errno.ErrMissingField))

	_, err = svc.CreateGrant(ctx, CreateGrantInput{Recipient: recipient}, ModeSimulated)
	assert.True(t, errors.Is(err, errno.ErrMissingField))

	_, err = svc.CreateGrant(ctx, CreateGrantInput{Recipient: "0x1234", FundingTxHash: fundingTx}, ModeSimulated)
	assert.True(t, errors.Is(err, errno.ErrInvalidAddress))

	_, err = svc.CreateGrant(ctx, CreateGrantInput{Recipient: recipient, FundingTxHash: fundingTx, Grantor: "bob"}, ModeSimulated)
	assert.True(t, errors.Is(err, errno.ErrInvalidAddress))

	_, total := l.List(ledger.Filter{})
	assert.Equal(t, 0, total)
}

func TestCreateGrantLive(t *testing.T) {
	fc := newFakeChain()
	fc.addFunding(fundingTx, sender, strings.ToUpper(treasury), amount.MustParse("0.01"), 1)
	svc, _, _ := newTestService(fc)

	res, err := svc.CreateGrant(context.Background(), CreateGrantInput{
		Recipient:     recipient,
		FundingTxHash: fundingTx,
	}, ModeLive)
	require.NoError(t, err)

	assert.Equal(t, sender, res.Grant.Grantor)
	assert.False(t, res.Grant.Mock)
	assert.Equal(t, "0xdistribution", res.Grant.DistributionTxHash)
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "9500000000000000", fc.sent[0].String())
}

func TestCreateGrantLiveGrantorOverride(t *testing.T) {
	fc := newFakeChain()
	fc.addFunding(fundingTx, sender, treasury, big.NewInt(1000), 1)
	svc, l, _ := newTestService(fc)

	other := "0x4444444444444444444444444444444444444444"
	res, err := svc.CreateGrant(context.Background(), CreateGrantInput{
		Recipient:     recipient,
		FundingTxHash: fundingTx,
		Grantor:       other,
	}, ModeLive)
	require.NoError(t, err)
	assert.Equal(t, other, res.Grant.Grantor)

	stats, _ := l.GrantorStats(other, 10)
	assert.Equal(t, int64(1), stats.TotalGrants)
	stats, _ = l.GrantorStats(sender, 10)
	assert.Equal(t, int64(0), stats.TotalGrants)
}

func TestCreateGrantLiveFailuresWriteNothing(t *testing.T) {
	cases := []struct {
		name  string
		setup func(fc *fakeChain)
		want  errno.Errno
	}{
		{"tx not found", func(fc *fakeChain) {}, errno.ErrTxNotFound},
		{"receipt missing", func(fc *fakeChain) {
			fc.addFunding(fundingTx, sender, treasury, big.NewInt(1000), 1)
			delete(fc.receipts, fundingTx)
		}, errno.ErrTxNotConfirmed},
		{"reverted", func(fc *fakeChain) {
			fc.addFunding(fundingTx, sender, treasury, big.NewInt(1000), 0)
		}, errno.ErrTxNotConfirmed},
		{"wrong destination", func(fc *fakeChain) {
			fc.addFunding(fundingTx, sender, recipient, big.NewInt(1000), 1)
		}, errno.ErrWrongDestination},
		{"zero value", func(fc *fakeChain) {
			fc.addFunding(fundingTx, sender, treasury, big.NewInt(0), 1)
		}, errno.ErrInvalidAmount},
		{"signing disabled", func(fc *fakeChain) {
			fc.addFunding(fundingTx, sender, treasury, big.NewInt(1000), 1)
			fc.canSend = false
		}, errno.ErrDistributionUnavailable},
		{"send fails", func(fc *fakeChain) {
			fc.addFunding(fundingTx, sender, treasury, big.NewInt(1000), 1)
			fc.sendErr = errors.New("insufficient funds for gas")
		}, errno.ErrDistributionFailed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fc := newFakeChain()
			c.setup(fc)
			svc, l, producer := newTestService(fc)

			_, err := svc.CreateGrant(context.Background(), CreateGrantInput{
				Recipient:     recipient,
				FundingTxHash: fundingTx,
			}, ModeLive)
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.want), "got %v", err)

			_, found := l.FindByFundingTx(fundingTx)
			assert.False(t, found)
			assert.Empty(t, producer.payloads)
		})
	}
}

func TestCreateGrantWrongDestinationDetail(t *testing.T) {
	fc := newFakeChain()
	fc.addFunding(fundingTx, sender, recipient, big.NewInt(1000), 1)
	svc, _, _ := newTestService(fc)

	_, err := svc.CreateGrant(context.Background(), CreateGrantInput{Recipient: recipient, FundingTxHash: fundingTx}, ModeLive)
	e := errno.Decode(err)
	assert.Equal(t, map[string]string{"expected": treasury, "actual": recipient}, e.Detail)
}

func TestCreateGrantDistributionFailedCarriesProviderMessage(t *testing.T) {
	fc := newFakeChain()
	fc.addFunding(fundingTx, sender, treasury, big.NewInt(1000), 1)
	fc.sendErr = errors.New("nonce too low")
	svc, _, _ := newTestService(fc)

	_, err := svc.CreateGrant(context.Background(), CreateGrantInput{Recipient: recipient, FundingTxHash: fundingTx}, ModeLive)
	assert.Contains(t, err.Error(), "nonce too low")

	// 失败后同一笔资金交易可以重试
	fc.sendErr = nil
	_, err = svc.CreateGrant(context.Background(), CreateGrantInput{Recipient: recipient, FundingTxHash: fundingTx}, ModeLive)
	assert.NoError(t, err)
}

func TestCreateGrantIdempotent(t *testing.T) {
	svc, l, _ := newTestService(newFakeChain())
	ctx := context.Background()
	in := CreateGrantInput{Recipient: recipient, FundingTxHash: fundingTx}

	first, err := svc.CreateGrant(ctx, in, ModeSimulated)
	require.NoError(t, err)

	in.FundingTxHash = "0x" + strings.ToUpper(fundingTx[2:])
	_, err = svc.CreateGrant(ctx, in, ModeSimulated)
	require.Error(t, err)

	id, dup := IsDuplicate(err)
	assert.True(t, dup)
	assert.Equal(t, first.Grant.ID, id)

	_, total := l.List(ledger.Filter{})
	assert.Equal(t, 1, total)
}

func TestCreateGrantConcurrentSameFunding(t *testing.T) {
	fc := newFakeChain()
	fc.addFunding(fundingTx, sender, treasury, amount.MustParse("0.01"), 1)
	fc.sendDelay = 10 * time.Millisecond
	svc, l, _ := newTestService(fc)

	const n = 20
	var wg sync.WaitGroup
	var ok, dup int32
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.CreateGrant(context.Background(), CreateGrantInput{
				Recipient:     recipient,
				FundingTxHash: fundingTx,
			}, ModeLive)
			if err == nil {
				atomic.AddInt32(&ok, 1)
				return
			}
			if _, isDup := IsDuplicate(err); isDup {
				atomic.AddInt32(&dup, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(n-1), dup)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fc.sends))
	_, total := l.List(ledger.Filter{})
	assert.Equal(t, 1, total)
}

func TestCreateGrantPublishFailureDoesNotFail(t *testing.T) {
	svc, l, producer := newTestService(newFakeChain())
	producer.err = errors.New("broker down")

	res, err := svc.CreateGrant(context.Background(), CreateGrantInput{Recipient: recipient, FundingTxHash: fundingTx}, ModeSimulated)
	require.NoError(t, err)
	_, ok := l.Get(res.Grant.ID)
	assert.True(t, ok)
}

func TestGrantEventPayload(t *testing.T) {
	svc, _, producer := newTestService(newFakeChain())
	res, err := svc.CreateGrant(context.Background(), CreateGrantInput{Recipient: recipient, FundingTxHash: fundingTx}, ModeSimulated)
	require.NoError(t, err)

	ev := event.FromGrant(res.Grant)
	assert.Equal(t, "500000000000000", ev.Fee)
	require.Len(t, producer.payloads, 1)
	assert.Contains(t, string(producer.payloads[0]), `"net_amount":"9500000000000000"`)
}

// tryOnceLocker 模拟 Redis 锁: 获取失败立即返回，释放需要匹配凭证
type tryOnceLocker struct {
	mu       sync.Mutex
	held     map[string]string
	ttls     []time.Duration
	seq      int
	released int
}

func (l *tryOnceLocker) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ttls = append(l.ttls, ttl)
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.seq++
	token := strings.Repeat("t", l.seq)
	l.held[key] = token
	return token, true, nil
}

func (l *tryOnceLocker) Release(_ context.Context, key string, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != token {
		return errors.New("token mismatch")
	}
	delete(l.held, key)
	l.released++
	return nil
}

func TestCreateGrantTryOnceLockSingleDistribution(t *testing.T) {
	fc := newFakeChain()
	fc.addFunding(fundingTx, sender, treasury, amount.MustParse("0.01"), 1)
	fc.sendDelay = 10 * time.Millisecond
	locker := &tryOnceLocker{held: map[string]string{}}
	svc := NewGrantService(GrantOptions{
		FeePercent:      5,
		TreasuryAddress: treasury,
		ChainTimeout:    30 * time.Second,
		LockTTL:         time.Second,
	}, fc, ledger.New(), locker, nil)

	const n = 10
	var wg sync.WaitGroup
	var ok, rejected int32
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.CreateGrant(context.Background(), CreateGrantInput{
				Recipient:     recipient,
				FundingTxHash: fundingTx,
			}, ModeLive)
			if err == nil {
				atomic.AddInt32(&ok, 1)
				return
			}
			_, isDup := IsDuplicate(err)
			if isDup || errors.Is(err, errno.ErrGrantInProgress) {
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(n-1), rejected)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fc.sends))

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Empty(t, locker.held, "every acquired lock is released with its own token")
	assert.Equal(t, locker.seq, locker.released)
	for _, ttl := range locker.ttls {
		assert.Greater(t, ttl, 30*time.Second)
	}
}
