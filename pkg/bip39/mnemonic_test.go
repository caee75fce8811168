package bip39

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerate(t *testing.T) {
	for bits, words := range map[int]int{128: 12, 256: 24} {
		mnemonic, err := Generate(bits)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(mnemonic), words)
		assert.True(t, Validate(mnemonic))
	}

	_, err := Generate(100)
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	// BIP-39 官方测试向量 (passphrase "TREZOR")
	want := "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"

	seed, err := Seed(testMnemonic, "TREZOR")
	require.NoError(t, err)
	assert.Equal(t, want, hex.EncodeToString(seed))

	// 换行、连续空格和大写不影响结果
	messy := "  ABANDON abandon\tabandon abandon abandon abandon\nabandon abandon abandon abandon abandon   about\n"
	again, err := Seed(messy, "TREZOR")
	require.NoError(t, err)
	assert.Equal(t, seed, again)
}

func TestSeedInvalid(t *testing.T) {
	for _, m := range []string{"", "abandon abandon", strings.Replace(testMnemonic, "about", "abandon", 1)} {
		_, err := Seed(m, "")
		assert.ErrorIs(t, err, ErrInvalidMnemonic, m)
	}
}
