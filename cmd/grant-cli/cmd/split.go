package cmd

import (
	"fmt"

	"grant-core/internal/service"
	"grant-core/pkg/amount"

	"github.com/spf13/cobra"
)

var splitFeePercent int64

// splitCmd 手续费试算
var splitCmd = &cobra.Command{
	Use:   "split <amount>",
	Short: "计算一笔 grant 的手续费和净额",
	Long:  `按 fee = floor(gross * fee% / 100) 计算，例如: grant-cli split "0.01 ETH"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if splitFeePercent < 0 || splitFeePercent >= 100 {
			return fmt.Errorf("--fee 必须在 [0, 100) 之间")
		}
		gross, err := amount.Parse(args[0])
		if err != nil {
			return err
		}

		fee, net := service.ComputeSplit(gross, splitFeePercent)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Gross: %s (%s wei)\n", amount.Format(gross), gross)
		fmt.Fprintf(out, "Fee:   %s (%s wei, %d%%)\n", amount.Format(fee), fee, splitFeePercent)
		fmt.Fprintf(out, "Net:   %s (%s wei)\n", amount.Format(net), net)
		return nil
	},
}

func init() {
	splitCmd.Flags().Int64Var(&splitFeePercent, "fee", 5, "手续费百分比")
	rootCmd.AddCommand(splitCmd)
}
