package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"grant-core/internal/handler/request"

	"github.com/spf13/cobra"
)

var (
	submitServer string
	submitReq    request.CreateGrantRequest
	submitMock   bool
	submitE2E    bool
)

// submitCmd 向运行中的 grant-server 提交请求
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "提交一笔 grant 请求",
	Long:  `例如: grant-cli submit --recipient 0x... --tx 0x... --mock`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if submitReq.Recipient == "" || submitReq.TxHash == "" {
			return fmt.Errorf("--recipient 和 --tx 必填")
		}

		path := "/grants"
		if submitE2E {
			path = "/test/e2e"
		} else if submitMock {
			path += "?mock=true"
		}

		body, err := json.Marshal(submitReq)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 60 * time.Second}
		resp, err := client.Post(strings.TrimRight(submitServer, "/")+path, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("请求失败: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		var pretty bytes.Buffer
		if json.Indent(&pretty, raw, "", "  ") != nil {
			pretty.Reset()
			pretty.Write(raw)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "HTTP %d\n%s\n", resp.StatusCode, pretty.String())
		if resp.StatusCode >= 300 {
			return fmt.Errorf("grant 请求失败: HTTP %d", resp.StatusCode)
		}
		return nil
	},
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitServer, "server", "http://localhost:8080", "grant-server 地址")
	f.StringVar(&submitReq.Recipient, "recipient", "", "收款地址")
	f.StringVar(&submitReq.TxHash, "tx", "", "资金交易哈希")
	f.StringVar(&submitReq.Amount, "amount", "", "金额 (仅模拟模式)")
	f.StringVar(&submitReq.Reason, "reason", "", "备注")
	f.StringVar(&submitReq.Grantor, "grantor", "", "显式指定 grantor")
	f.BoolVar(&submitMock, "mock", false, "模拟模式")
	f.BoolVar(&submitE2E, "e2e", false, "走 /test/e2e")

	rootCmd.AddCommand(submitCmd)
}
