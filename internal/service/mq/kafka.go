package mq

import (
	"context"
	"fmt"
	"time"

	"grant-core/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter *kafka.Writer 的方法子集
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader *kafka.Reader 的方法子集
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer 实现 Producer 接口
type KafkaProducer struct {
	writer messageWriter
}

// NewKafkaProducer 按 Key 哈希分区，同一 grant 的消息有序
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
	}
	return &KafkaProducer{writer: writer}
}

// Publish topic 由 Writer 决定，这里的参数仅用于日志
func (p *KafkaProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write error (%s): %w", topic, err)
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer 实现 Consumer 接口
type KafkaConsumer struct {
	brokers   []string
	groupID   string
	reader    messageReader
	newReader func(topic string) messageReader
	log       *zap.Logger
}

func NewKafkaConsumer(brokers []string, groupID string) *KafkaConsumer {
	c := &KafkaConsumer{
		brokers: brokers,
		groupID: groupID,
		log:     logger.Named("mq.kafka"),
	}
	c.newReader = c.dialReader
	return c
}

func (c *KafkaConsumer) dialReader(topic string) messageReader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
}

func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error {
	c.reader = c.newReader(topic)

	c.log.Info("开始监听主题", zap.String("topic", topic), zap.String("group", c.groupID))

	for {
		// 1. 读取 (阻塞直到有消息)
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("读取消息错误", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		msg := &Message{
			ID:      fmt.Sprintf("%d/%d", m.Partition, m.Offset),
			Topic:   topic,
			Key:     string(m.Key),
			Payload: m.Value,
		}

		// 2. 处理失败不提交 offset，重启后从该位置重新消费
		if err := handler(msg); err != nil {
			c.log.Error("消息处理失败", zap.String("id", msg.ID), zap.Error(err))
			continue
		}

		// 3. 手动提交 offset
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.log.Warn("提交 Offset 失败", zap.Error(err))
		}
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
