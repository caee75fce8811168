package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grant-core/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamClient Redis Stream 生产/消费用到的命令子集，*redis.Client 满足该接口
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	Close() error
}

// RedisProducer 基于 Redis Stream (XADD)
type RedisProducer struct {
	client StreamClient
	maxLen int64
}

// NewRedisProducer maxLen > 0 时按近似长度裁剪 Stream
func NewRedisProducer(client StreamClient, maxLen int64) *RedisProducer {
	return &RedisProducer{client: client, maxLen: maxLen}
}

func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	args := &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis xadd error: %w", err)
	}
	return nil
}

// Close Redis 客户端由调用方统一管理
func (p *RedisProducer) Close() error {
	return nil
}

// RedisConsumer 基于 Consumer Group 的 Redis Stream 消费者
type RedisConsumer struct {
	client StreamClient
	group  string
	name   string
	log    *zap.Logger
}

func NewRedisConsumer(client StreamClient, group, name string) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		group:  group,
		name:   name,
		log:    logger.Named("mq.redis"),
	}
}

func (c *RedisConsumer) Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error {
	// 1. 创建 Consumer Group (如果不存在)
	err := c.client.XGroupCreateMkStream(ctx, topic, c.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("创建消费者组失败: %w", err)
	}

	c.log.Info("开始监听主题", zap.String("topic", topic), zap.String("group", c.group))

	for {
		if ctx.Err() != nil {
			return nil
		}

		// 2. 阻塞读取
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{topic, ">"},
			Count:    10,
			Block:    2 * time.Second,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("读取消息错误", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		// 3. 处理并 ACK
		for _, stream := range streams {
			for _, x := range stream.Messages {
				payload, ok := x.Values["payload"].(string)
				if !ok {
					c.log.Warn("消息格式错误: payload 缺失", zap.String("id", x.ID))
					c.ack(ctx, topic, x.ID)
					continue
				}
				key, _ := x.Values["key"].(string)

				msg := &Message{ID: x.ID, Topic: topic, Key: key, Payload: []byte(payload)}
				if err := handler(msg); err != nil {
					c.log.Error("消息处理失败", zap.String("id", x.ID), zap.Error(err))
					continue
				}
				c.ack(ctx, topic, x.ID)
			}
		}
	}
}

func (c *RedisConsumer) ack(ctx context.Context, topic, id string) {
	if err := c.client.XAck(ctx, topic, c.group, id).Err(); err != nil {
		c.log.Warn("ACK 失败", zap.String("id", id), zap.Error(err))
	}
}

func (c *RedisConsumer) Close() error {
	return c.client.Close()
}
