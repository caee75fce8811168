package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"grant-core/internal/event"
	"grant-core/internal/service/mq"
	"grant-core/pkg/amount"
	"grant-core/pkg/config"
	"grant-core/pkg/database"
	"grant-core/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var eventsGroup string

// eventsCmd 订阅 grant 完成事件 (mq.type = redis / kafka)
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "订阅并打印 grant 完成事件",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Init()
		cfg := config.Global
		logger.Init(cfg.App.Env)
		defer logger.Sync()

		// 1. 创建消费者
		var consumer mq.Consumer
		switch cfg.MQ.Type {
		case "redis":
			rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			consumer = mq.NewRedisConsumer(rdb, eventsGroup, "grant-cli-"+uuid.NewString()[:8])
		case "kafka":
			consumer = mq.NewKafkaConsumer(cfg.Kafka.Brokers, eventsGroup)
		default:
			return fmt.Errorf("mq.type=%q，未启用事件发布", cfg.MQ.Type)
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 2. 消费
		out := cmd.OutOrStdout()
		return consumer.Subscribe(ctx, cfg.MQ.Topic, func(msg *mq.Message) error {
			var ev event.GrantCompletedEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				return fmt.Errorf("解析事件失败: %w", err)
			}
			netAmount, err := decimal.NewFromString(ev.NetAmount)
			if err != nil {
				return fmt.Errorf("解析金额失败: %w", err)
			}
			fmt.Fprintf(out, "[%s] grant=%s recipient=%s grantor=%s net=%s mock=%t tx=%s\n",
				ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.GrantID, ev.Recipient, ev.Grantor,
				amount.FormatDecimal(netAmount), ev.Mock, ev.DistributionTxHash)
			return nil
		})
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsGroup, "group", "grant-cli", "消费组")
	rootCmd.AddCommand(eventsCmd)
}
