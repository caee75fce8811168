package chain

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"grant-core/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// transferGasLimit 普通 ETH 转账
const transferGasLimit = uint64(21000)

// Backend ethclient.Client 中被用到的方法，测试时可替换
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// EthProvider 基于 go-ethereum 的 Provider 实现
type EthProvider struct {
	backend Backend
	signer  *ecdsa.PrivateKey // nil 表示未配置出账凭证
	from    common.Address

	chainMu sync.Mutex
	chainID *big.Int

	// 同一进程内的出账串行化，避免并发请求拿到相同 nonce
	sendMu sync.Mutex

	log *zap.Logger
}

// Dial 连接 RPC 节点并创建 Provider
func Dial(ctx context.Context, rpcURL string, signer *ecdsa.PrivateKey) (*EthProvider, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("连接 RPC 失败 (%s): %w", rpcURL, err)
	}
	p := NewEthProvider(client, signer)

	// ChainID 获取失败不阻止启动，首次出账时会重试
	if _, err := p.resolveChainID(ctx); err != nil {
		p.log.Warn("获取 ChainID 失败，将在首次出账时重试", zap.Error(err))
	}
	return p, nil
}

func NewEthProvider(backend Backend, signer *ecdsa.PrivateKey) *EthProvider {
	p := &EthProvider{
		backend: backend,
		signer:  signer,
		log:     logger.Named("chain"),
	}
	if signer != nil {
		p.from = crypto.PubkeyToAddress(signer.PublicKey)
	}
	return p
}

func (p *EthProvider) GetTransaction(ctx context.Context, hash string) (*Transaction, error) {
	if !isTxHash(hash) {
		return nil, nil
	}
	tx, pending, err := p.backend.TransactionByHash(ctx, common.HexToHash(hash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询交易失败: %w", err)
	}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, fmt.Errorf("恢复交易发送方失败: %w", err)
	}

	out := &Transaction{
		Hash:    tx.Hash().Hex(),
		From:    from.Hex(),
		Value:   new(big.Int).Set(tx.Value()),
		Pending: pending,
	}
	if to := tx.To(); to != nil {
		out.To = to.Hex()
	}
	return out, nil
}

func (p *EthProvider) GetReceipt(ctx context.Context, hash string) (*Receipt, error) {
	if !isTxHash(hash) {
		return nil, nil
	}
	receipt, err := p.backend.TransactionReceipt(ctx, common.HexToHash(hash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询回执失败: %w", err)
	}
	return &Receipt{Status: receipt.Status, BlockNumber: receipt.BlockNumber}, nil
}

func (p *EthProvider) IsValidAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

func (p *EthProvider) CanSend() bool {
	return p.signer != nil
}

func (p *EthProvider) SignerAddress() string {
	if p.signer == nil {
		return ""
	}
	return p.from.Hex()
}

// SendValue 构造、签名并广播一笔普通转账
func (p *EthProvider) SendValue(ctx context.Context, to string, wei *big.Int) (string, error) {
	if p.signer == nil {
		return "", errors.New("签名私钥未配置")
	}
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("无效的收款地址: %s", to)
	}

	chainID, err := p.resolveChainID(ctx)
	if err != nil {
		return "", err
	}

	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	// 1. Nonce & Gas
	nonce, err := p.backend.PendingNonceAt(ctx, p.from)
	if err != nil {
		return "", fmt.Errorf("获取 nonce 失败: %w", err)
	}
	gasPrice, err := p.backend.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("获取 gas price 失败: %w", err)
	}

	// 2. 构造并签名
	tx := types.NewTransaction(nonce, common.HexToAddress(to), wei, transferGasLimit, gasPrice, nil)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), p.signer)
	if err != nil {
		return "", fmt.Errorf("签名失败: %w", err)
	}

	// 3. 广播
	if err := p.backend.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("广播失败: %w", err)
	}

	hash := signedTx.Hash().Hex()
	p.log.Info("出账交易已广播",
		zap.String("tx_hash", hash),
		zap.String("to", to),
		zap.String("wei", wei.String()),
		zap.Uint64("nonce", nonce))
	return hash, nil
}

func (p *EthProvider) resolveChainID(ctx context.Context) (*big.Int, error) {
	p.chainMu.Lock()
	defer p.chainMu.Unlock()

	if p.chainID != nil {
		return p.chainID, nil
	}
	id, err := p.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取 ChainID 失败: %w", err)
	}
	p.chainID = id
	return id, nil
}

// isTxHash 0x + 64 位 hex；格式不对的哈希直接视为不存在，不浪费 RPC 调用
func isTxHash(s string) bool {
	if len(s) != 66 || s[:2] != "0x" && s[:2] != "0X" {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
