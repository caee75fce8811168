// Package bip32 BIP-32/BIP-44 分层确定性派生，只用于得到以太坊出账签名私钥
package bip32

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultETHPath BIP-44 以太坊第一个外部地址
const DefaultETHPath = "m/44'/60'/0'/0/0"

var (
	ErrInvalidSeed = errors.New("无效的种子")
	ErrInvalidPath = errors.New("无效的派生路径")
	ErrPublicOnly  = errors.New("扩展公钥无法导出私钥")
)

// Key 封装 hdkeychain 扩展密钥
type Key struct {
	ext *hdkeychain.ExtendedKey
}

// Master 由 BIP-39 种子生成主密钥
// xprv/xpub 序列化固定使用 mainnet 前缀，不影响派生出的以太坊密钥
func Master(seed []byte) (*Key, error) {
	if len(seed) < hdkeychain.MinSeedBytes || len(seed) > hdkeychain.MaxSeedBytes {
		return nil, ErrInvalidSeed
	}
	ext, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("生成主密钥失败: %w", err)
	}
	return &Key{ext: ext}, nil
}

// String Base58 编码 (xprv... / xpub...)
func (k *Key) String() string { return k.ext.String() }

func (k *Key) IsPrivate() bool { return k.ext.IsPrivate() }

// Neuter 返回对应的扩展公钥
func (k *Key) Neuter() (*Key, error) {
	pub, err := k.ext.Neuter()
	if err != nil {
		return nil, fmt.Errorf("转换公钥失败: %w", err)
	}
	return &Key{ext: pub}, nil
}

func (k *Key) Child(index uint32) (*Key, error) {
	child, err := k.ext.Derive(index)
	if err != nil {
		return nil, fmt.Errorf("派生子密钥失败 (%d): %w", index, err)
	}
	return &Key{ext: child}, nil
}

// DerivePath 按路径逐级派生，空路径或 "m" 返回自身
func (k *Key) DerivePath(path string) (*Key, error) {
	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	cur := k
	for _, idx := range indexes {
		if cur, err = cur.Child(idx); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// ECDSA 导出可直接用于交易签名的私钥
func (k *Key) ECDSA() (*ecdsa.PrivateKey, error) {
	if !k.ext.IsPrivate() {
		return nil, ErrPublicOnly
	}
	priv, err := k.ext.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("导出私钥失败: %w", err)
	}
	return priv.ToECDSA(), nil
}

// PublicKey secp256k1 公钥，扩展公钥同样可用
func (k *Key) PublicKey() (*btcec.PublicKey, error) {
	pub, err := k.ext.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("导出公钥失败: %w", err)
	}
	return pub, nil
}

// Address 以太坊地址
func (k *Key) Address() (common.Address, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub.ToECDSA()), nil
}

// ParsePath 解析 "m/44'/60'/0'/0/0" 为索引序列，' 和 h 都表示硬化派生
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "m" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "m/") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	segments := strings.Split(path[2:], "/")
	indexes := make([]uint32, 0, len(segments))
	for _, seg := range segments {
		hardened := strings.HasSuffix(seg, "'") || strings.HasSuffix(seg, "h")
		if hardened {
			seg = seg[:len(seg)-1]
		}
		val, err := strconv.ParseUint(seg, 10, 32)
		if err != nil || val >= uint64(hdkeychain.HardenedKeyStart) {
			return nil, fmt.Errorf("%w: 无效的路径段 '%s'", ErrInvalidPath, seg)
		}
		idx := uint32(val)
		if hardened {
			idx += hdkeychain.HardenedKeyStart
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// DeriveECDSA 从种子和路径直接得到签名私钥
func DeriveECDSA(seed []byte, path string) (*ecdsa.PrivateKey, error) {
	master, err := Master(seed)
	if err != nil {
		return nil, err
	}
	key, err := master.DerivePath(path)
	if err != nil {
		return nil, err
	}
	return key.ECDSA()
}
