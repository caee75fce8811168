package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"split", "0.01 ETH"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Gross: 0.010000 ETH (10000000000000000 wei)")
	assert.Contains(t, out.String(), "Fee:   0.000500 ETH (500000000000000 wei, 5%)")
	assert.Contains(t, out.String(), "Net:   0.009500 ETH (9500000000000000 wei)")
}

func TestSplitCommandRejectsBadAmount(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"split", "lots"})
	assert.Error(t, rootCmd.Execute())
}

func TestKeyNewCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"key", "new"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "金库地址: 0x")
	assert.Regexp(t, `公钥 \(压缩\): 0[23][0-9a-f]{64}\n`, out.String())
}
