package mq

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream 记录 XADD 参数，XREADGROUP 依次返回预置批次，批次耗尽时调用 onDrained
type fakeStream struct {
	mu        sync.Mutex
	added     []*redis.XAddArgs
	addErr    error
	groupErr  error
	groups    []string
	batches   [][]redis.XStream
	acked     []string
	onDrained func()
	closed    bool
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return redis.NewStringResult("", f.addErr)
	}
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", nil)
}

func (f *fakeStream) XGroupCreateMkStream(_ context.Context, stream, group, _ string) *redis.StatusCmd {
	f.groups = append(f.groups, stream+"/"+group)
	if f.groupErr != nil {
		return redis.NewStatusResult("", f.groupErr)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStream) XReadGroup(_ context.Context, _ *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		if f.onDrained != nil {
			f.onDrained()
		}
		return redis.NewXStreamSliceCmdResult(nil, redis.Nil)
	}
	next := f.batches[0]
	f.batches = f.batches[1:]
	return redis.NewXStreamSliceCmdResult(next, nil)
}

func (f *fakeStream) XAck(_ context.Context, _, _ string, ids ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func TestRedisProducerPublish(t *testing.T) {
	client := &fakeStream{}
	p := NewRedisProducer(client, 10000)

	require.NoError(t, p.Publish(context.Background(), "grant_events_completed", "grant-1", []byte(`{"grantId":"grant-1"}`)))
	require.Len(t, client.added, 1)

	args := client.added[0]
	assert.Equal(t, "grant_events_completed", args.Stream)
	assert.Equal(t, int64(10000), args.MaxLen)
	assert.True(t, args.Approx)
	values := args.Values.(map[string]interface{})
	assert.Equal(t, "grant-1", values["key"])
	assert.Equal(t, []byte(`{"grantId":"grant-1"}`), values["payload"])

	// 不裁剪
	client.added = nil
	require.NoError(t, NewRedisProducer(client, 0).Publish(context.Background(), "t", "", nil))
	assert.Zero(t, client.added[0].MaxLen)

	client.addErr = errors.New("READONLY")
	assert.ErrorContains(t, p.Publish(context.Background(), "t", "k", nil), "READONLY")
}

func TestRedisConsumerSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &fakeStream{
		groupErr: errors.New("BUSYGROUP Consumer Group name already exists"),
		batches: [][]redis.XStream{{{
			Stream: "grant_events_completed",
			Messages: []redis.XMessage{
				{ID: "1-0", Values: map[string]interface{}{"key": "grant-1", "payload": `{"grantId":"grant-1"}`}},
				{ID: "2-0", Values: map[string]interface{}{"key": "grant-2"}},
				{ID: "3-0", Values: map[string]interface{}{"key": "grant-3", "payload": `{"grantId":"grant-3"}`}},
			},
		}}},
		onDrained: cancel,
	}

	var got []*Message
	c := NewRedisConsumer(client, "grant-cli", "c1")
	err := c.Subscribe(ctx, "grant_events_completed", func(msg *Message) error {
		got = append(got, msg)
		if msg.Key == "grant-3" {
			return errors.New("handler failed")
		}
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, Message{ID: "1-0", Topic: "grant_events_completed", Key: "grant-1", Payload: []byte(`{"grantId":"grant-1"}`)}, *got[0])
	assert.Equal(t, "grant-3", got[1].Key)

	// payload 缺失的消息直接确认丢弃，处理失败的消息保留待重试
	assert.Equal(t, []string{"1-0", "2-0"}, client.acked)
	assert.Equal(t, []string{"grant_events_completed/grant-cli"}, client.groups)

	require.NoError(t, c.Close())
	assert.True(t, client.closed)
}

func TestRedisConsumerGroupCreateError(t *testing.T) {
	client := &fakeStream{groupErr: errors.New("NOPERM")}
	err := NewRedisConsumer(client, "g", "c").Subscribe(context.Background(), "t", func(*Message) error { return nil })
	assert.ErrorContains(t, err, "NOPERM")
}
