package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "grant-cli",
	Short: "grant 服务命令行工具",
	Long: `grant-core 的运维与调试工具。
支持手续费试算、出账签名凭证管理、提交 grant 请求以及订阅 grant 完成事件。`,
	SilenceUsage: true,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
