// Package bip39 金库助记词的生成、规范化和种子派生
package bip39

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("助记词无效")

// Generate 生成新的随机助记词，bits 为 128 (12 个单词) 到 256 (24 个单词)
func Generate(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("生成熵失败: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("生成助记词失败: %w", err)
	}
	return mnemonic, nil
}

// Normalize 去掉多余空白和换行并转为小写
// 环境变量、.env 和 keystore 中的助记词经常带有换行或连续空格
func Normalize(mnemonic string) string {
	return strings.ToLower(strings.Join(strings.Fields(mnemonic), " "))
}

// Validate 规范化后校验单词表和校验和
func Validate(mnemonic string) bool {
	return bip39.IsMnemonicValid(Normalize(mnemonic))
}

// Seed 校验后派生 64 字节种子，passphrase 不需要时传 ""
func Seed(mnemonic, passphrase string) ([]byte, error) {
	m := Normalize(mnemonic)
	if !bip39.IsMnemonicValid(m) {
		return nil, ErrInvalidMnemonic
	}
	return bip39.NewSeedWithErrorChecking(m, passphrase)
}
