// Package safe_random 基于操作系统 CSPRNG 的随机值，用于 nonce、salt、锁凭证和模拟交易哈希
package safe_random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TokenBytes 锁凭证的随机字节数
const TokenBytes = 16

// Bytes 返回 n 个随机字节，读取不足时返回错误
func Bytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("随机字节长度必须为正数: %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}

// Hex n 字节随机数的十六进制编码，字符串长度为 2n
func Hex(n int) (string, error) {
	b, err := Bytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Token 分布式锁的持有凭证
func Token() (string, error) {
	return Hex(TokenBytes)
}

// TxHash 模拟模式下的占位交易哈希，格式与链上哈希一致 (0x + 64 hex)
func TxHash() (string, error) {
	b, err := Bytes(common.HashLength)
	if err != nil {
		return "", err
	}
	return common.BytesToHash(b).Hex(), nil
}
