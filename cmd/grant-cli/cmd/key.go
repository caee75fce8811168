package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"grant-core/internal/service/chain"
	"grant-core/pkg/bip32"
	"grant-core/pkg/bip39"
	"grant-core/pkg/keystore"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	keyBits     int
	keyPath     string
	keyKeystore string
	keyPassword string
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "出账签名凭证管理",
}

// keyNewCmd 生成新的金库助记词
var keyNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新的金库助记词并显示派生地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		// 1. 生成助记词
		mnemonic, err := bip39.Generate(keyBits)
		if err != nil {
			return fmt.Errorf("生成助记词失败: %w", err)
		}

		// 2. 派生地址和公钥
		seed, err := bip39.Seed(mnemonic, "")
		if err != nil {
			return err
		}
		master, err := bip32.Master(seed)
		if err != nil {
			return err
		}
		key, err := master.DerivePath(keyPath)
		if err != nil {
			return err
		}
		addr, err := key.Address()
		if err != nil {
			return err
		}
		pub, err := key.PublicKey()
		if err != nil {
			return err
		}
		address := addr.Hex()
		pubHex := hex.EncodeToString(pub.SerializeCompressed())

		// 3. 可选: 加密保存
		if keyKeystore != "" {
			if keyPassword == "" {
				return fmt.Errorf("--keystore 需要同时指定 --password")
			}
			keyJSON, err := keystore.EncryptMnemonic(mnemonic, keyPassword, address, keystore.StandardScryptN)
			if err != nil {
				return fmt.Errorf("加密助记词失败: %w", err)
			}
			if err := keyJSON.SaveToFile(keyKeystore); err != nil {
				return fmt.Errorf("保存 keystore 失败: %w", err)
			}
			fmt.Fprintf(out, "Keystore 已保存: %s\n", keyKeystore)
			fmt.Fprintf(out, "金库地址: %s\n", address)
			fmt.Fprintf(out, "公钥 (压缩): %s\n", pubHex)
			fmt.Fprintln(out, "设置 CHAIN_KEYSTORE_PATH 与 CHAIN_KEYSTORE_PASSWORD 即可启用真实分发")
			return nil
		}

		fmt.Fprintln(out, "---------------------------------------------------")
		fmt.Fprintf(out, "助记词 (Mnemonic):\n%s\n", mnemonic)
		fmt.Fprintln(out, "---------------------------------------------------")
		fmt.Fprintf(out, "派生路径: %s\n", keyPath)
		fmt.Fprintf(out, "金库地址: %s\n", address)
		fmt.Fprintf(out, "公钥 (压缩): %s\n", pubHex)
		fmt.Fprintln(out, "---------------------------------------------------")
		fmt.Fprintln(out, "将助记词写入 CHAIN_MNEMONIC 即可启用真实分发，请妥善保管！")
		return nil
	},
}

// keyShowCmd 显示当前环境配置的签名账户地址
var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示环境变量中签名凭证对应的地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := chain.LoadSigner(chain.Credentials{
			PrivateKey:       os.Getenv("CHAIN_PRIVATE_KEY"),
			KeystorePath:     os.Getenv("CHAIN_KEYSTORE_PATH"),
			KeystorePassword: os.Getenv("CHAIN_KEYSTORE_PASSWORD"),
			Mnemonic:         os.Getenv("CHAIN_MNEMONIC"),
			DerivationPath:   keyPath,
		})
		if err != nil {
			return err
		}
		if key == nil {
			return fmt.Errorf("未配置 CHAIN_PRIVATE_KEY / CHAIN_KEYSTORE_PATH / CHAIN_MNEMONIC")
		}
		fmt.Fprintln(cmd.OutOrStdout(), crypto.PubkeyToAddress(key.PublicKey).Hex())
		return nil
	},
}

func init() {
	keyNewCmd.Flags().IntVar(&keyBits, "bits", 128, "熵长度 (128 = 12 个单词, 256 = 24 个单词)")
	keyNewCmd.Flags().StringVar(&keyKeystore, "keystore", "", "加密保存到指定文件，不在终端打印助记词")
	keyNewCmd.Flags().StringVar(&keyPassword, "password", "", "keystore 密码")
	keyCmd.PersistentFlags().StringVar(&keyPath, "path", bip32.DefaultETHPath, "BIP-44 派生路径")

	keyCmd.AddCommand(keyNewCmd, keyShowCmd)
	rootCmd.AddCommand(keyCmd)
}
