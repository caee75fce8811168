// Package keystore 用密码加密保存金库助记词，避免明文出现在环境变量或配置文件中
package keystore

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"grant-core/pkg/crypto_util"
	"grant-core/pkg/safe_random"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

const (
	Version = 1
	Cipher  = "aes-256-gcm"
	KDF     = "scrypt"

	// StandardScryptN 约 256MB 内存；测试与低配机器可以用 LightScryptN
	StandardScryptN = 1 << 18
	LightScryptN    = 1 << 12

	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32
)

var ErrDecrypt = errors.New("密码错误或 keystore 文件已损坏")

// KeyJSON keystore 文件格式
type KeyJSON struct {
	Version int        `json:"version"`
	ID      string     `json:"id"`
	Address string     `json:"address,omitempty"` // 派生出的金库地址，仅用于展示
	Crypto  CryptoJSON `json:"crypto"`
}

type CryptoJSON struct {
	Cipher     string    `json:"cipher"`
	CipherText string    `json:"ciphertext"` // hex(nonce + 密文)
	KDF        string    `json:"kdf"`
	KDFParams  KDFParams `json:"kdfparams"`
	MAC        string    `json:"mac"` // hex(keccak256(derivedKey[16:] + ciphertext))
}

type KDFParams struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	Salt  string `json:"salt"`
}

// EncryptMnemonic scryptN 传 0 时使用 StandardScryptN
func EncryptMnemonic(mnemonic, password, address string, scryptN int) (*KeyJSON, error) {
	if scryptN <= 0 {
		scryptN = StandardScryptN
	}

	// 1. 派生密钥
	salt, err := safe_random.Bytes(32)
	if err != nil {
		return nil, err
	}
	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}

	// 2. 加密
	ciphertext, err := crypto_util.EncryptAESGCM(derivedKey, []byte(mnemonic))
	if err != nil {
		return nil, err
	}

	return &KeyJSON{
		Version: Version,
		ID:      uuid.NewString(),
		Address: address,
		Crypto: CryptoJSON{
			Cipher:     Cipher,
			CipherText: hex.EncodeToString(ciphertext),
			KDF:        KDF,
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac(derivedKey, ciphertext)),
		},
	}, nil
}

// DecryptMnemonic 先校验 MAC，再解密
func DecryptMnemonic(k *KeyJSON, password string) (string, error) {
	if k.Crypto.Cipher != Cipher || k.Crypto.KDF != KDF {
		return "", fmt.Errorf("不支持的 keystore 格式: %s/%s", k.Crypto.Cipher, k.Crypto.KDF)
	}

	salt, err := hex.DecodeString(k.Crypto.KDFParams.Salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	ciphertext, err := hex.DecodeString(k.Crypto.CipherText)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext: %w", err)
	}
	expectedMAC, err := hex.DecodeString(k.Crypto.MAC)
	if err != nil {
		return "", fmt.Errorf("invalid mac: %w", err)
	}

	p := k.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, p.DKLen)
	if err != nil {
		return "", err
	}

	if subtle.ConstantTimeCompare(expectedMAC, mac(derivedKey, ciphertext)) != 1 {
		return "", ErrDecrypt
	}

	plaintext, err := crypto_util.DecryptAESGCM(derivedKey, ciphertext)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

func mac(derivedKey, ciphertext []byte) []byte {
	return crypto.Keccak256(derivedKey[len(derivedKey)/2:], ciphertext)
}

// SaveToFile 权限 0600
func (k *KeyJSON) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

func LoadFromFile(filename string) (*KeyJSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var k KeyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("解析 keystore 失败: %w", err)
	}
	return &k, nil
}
