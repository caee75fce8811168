package safe_random

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	b, err := Bytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
	assert.NotEqual(t, make([]byte, 32), b, "极不可能全为零")

	_, err = Bytes(0)
	assert.Error(t, err)
}

func TestHexAndToken(t *testing.T) {
	s, err := Hex(16)
	require.NoError(t, err)
	decoded, err := hex.DecodeString(s)
	require.NoError(t, err)
	assert.Len(t, decoded, 16)

	t1, err := Token()
	require.NoError(t, err)
	t2, err := Token()
	require.NoError(t, err)
	assert.Len(t, t1, 2*TokenBytes)
	assert.NotEqual(t, t1, t2)
}

func TestTxHash(t *testing.T) {
	h1, err := TxHash()
	require.NoError(t, err)
	h2, err := TxHash()
	require.NoError(t, err)

	assert.Len(t, h1, 66)
	assert.Equal(t, "0x", h1[:2])
	_, err = hex.DecodeString(h1[2:])
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
