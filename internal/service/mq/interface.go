package mq

import "context"

// Message 代表一条通用的业务消息
type Message struct {
	ID      string // Redis Stream ID 或 Kafka partition/offset
	Topic   string
	Key     string // 分区键，grant 事件使用 grantId
	Payload []byte // JSON
}

// Producer 生产者接口
type Producer interface {
	// Publish key 用于分区，传空字符串则随机分区
	Publish(ctx context.Context, topic string, key string, payload []byte) error
	Close() error
}

// Consumer 消费者接口
type Consumer interface {
	// Subscribe 阻塞消费直到 ctx 取消；handler 返回 error 的消息不会被确认
	Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error
	Close() error
}

// NopProducer mq.type=none 时使用，丢弃所有消息
type NopProducer struct{}

func (NopProducer) Publish(context.Context, string, string, []byte) error { return nil }
func (NopProducer) Close() error                                          { return nil }
