// Package chain 封装 grant 流程用到的链上能力: 交易/回执查询、地址校验、出账转账。
package chain

import (
	"context"
	"math/big"
)

// Transaction 资金交易中 grant 流程关心的字段
type Transaction struct {
	Hash    string
	From    string
	To      string // 合约创建交易为空
	Value   *big.Int
	Pending bool
}

// Receipt 交易回执
type Receipt struct {
	Status      uint64 // 1 = 成功
	BlockNumber *big.Int
}

// Succeeded 回执存在且执行成功
func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == 1
}

// Provider 链访问接口
// 查询类方法在对象不存在时返回 (nil, nil)，只有 RPC 层面的失败才返回 error
type Provider interface {
	GetTransaction(ctx context.Context, hash string) (*Transaction, error)
	GetReceipt(ctx context.Context, hash string) (*Receipt, error)
	IsValidAddress(addr string) bool
	// SendValue 从金库向 to 转账 wei，返回交易哈希
	SendValue(ctx context.Context, to string, wei *big.Int) (string, error)
	// CanSend 是否配置了出账签名凭证
	CanSend() bool
	// SignerAddress 签名账户地址，未配置时为空
	SignerAddress() string
}
