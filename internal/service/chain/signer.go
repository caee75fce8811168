package chain

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"grant-core/pkg/bip32"
	"grant-core/pkg/bip39"
	"grant-core/pkg/keystore"

	"github.com/ethereum/go-ethereum/crypto"
)

// Credentials 出账签名凭证，按 PrivateKey > Keystore > Mnemonic 的优先级生效
type Credentials struct {
	PrivateKey       string
	KeystorePath     string
	KeystorePassword string
	Mnemonic         string
	DerivationPath   string
}

// LoadSigner 从凭证加载出账签名私钥
// 全部为空时返回 (nil, nil)，表示禁用真实分发
func LoadSigner(c Credentials) (*ecdsa.PrivateKey, error) {
	if hexKey := strings.TrimPrefix(strings.TrimSpace(c.PrivateKey), "0x"); hexKey != "" {
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return nil, fmt.Errorf("解析私钥失败: %w", err)
		}
		return key, nil
	}

	mnemonic := strings.TrimSpace(c.Mnemonic)
	if c.KeystorePath != "" {
		keyJSON, err := keystore.LoadFromFile(c.KeystorePath)
		if err != nil {
			return nil, fmt.Errorf("加载 keystore 失败: %w", err)
		}
		mnemonic, err = keystore.DecryptMnemonic(keyJSON, c.KeystorePassword)
		if err != nil {
			return nil, fmt.Errorf("解密 keystore 失败: %w", err)
		}
	}
	if mnemonic == "" {
		return nil, nil
	}

	return DeriveSigner(mnemonic, c.DerivationPath)
}

// DeriveSigner 助记词 -> seed -> BIP-32 派生私钥
func DeriveSigner(mnemonic, path string) (*ecdsa.PrivateKey, error) {
	if path == "" {
		path = bip32.DefaultETHPath
	}

	seed, err := bip39.Seed(mnemonic, "")
	if err != nil {
		return nil, err
	}
	key, err := bip32.DeriveECDSA(seed, path)
	if err != nil {
		return nil, fmt.Errorf("派生签名私钥失败 (%s): %w", path, err)
	}
	return key, nil
}
