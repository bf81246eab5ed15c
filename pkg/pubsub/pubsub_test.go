package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	Round string `json:"round"`
	Seat  int    `json:"seat"`
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestPubSub_PublishSubscribe(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	ps := New(client, WithRecovery())
	defer ps.Close()

	var mu sync.Mutex
	var got []message
	received := make(chan struct{}, 10)

	sub, err := ps.Subscribe(ctx, "round:r1", Typed(func(ctx context.Context, msg message) {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
		received <- struct{}{}
	}))
	require.NoError(t, err)
	sub.Loop()

	require.NoError(t, ps.Publish(ctx, "round:r1", message{"r1", 0}, message{"r1", 1}))
	require.NoError(t, ps.Publish(ctx, "round:r1", message{"r1", 2}))

	for range 3 {
		select {
		case <-received:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	for i, msg := range got {
		assert.Equal(t, i, msg.Seat, "a single worker keeps publish order")
	}
	require.NoError(t, sub.Stop())
	assert.ErrorIs(t, sub.Stop(), ErrSubscriptionClosed)
}

func TestPubSub_QueueFull(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	ps := New(client, WithQueueSize(2), WithKeyTtl(time.Minute))
	defer ps.Close()

	require.NoError(t, ps.Publish(ctx, "t", 1, 2))
	assert.ErrorIs(t, ps.Publish(ctx, "t", 3), ErrQueueFull)

	list, err := mr.List(formatTopicKey("t"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, list)
	assert.Equal(t, time.Minute, mr.TTL(formatTopicKey("t")))
}

func TestPubSub_Closed(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	ps := New(client)
	_, err := ps.Subscribe(ctx, "t", nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	sub, err := ps.Subscribe(ctx, "t", func(context.Context, []byte) error { return nil })
	require.NoError(t, err)
	sub.Loop()

	require.NoError(t, ps.Close())
	require.NoError(t, ps.Close())
	assert.ErrorIs(t, ps.Publish(ctx, "t", 1), ErrPubSubClosed)
	_, err = ps.Subscribe(ctx, "t", func(context.Context, []byte) error { return nil })
	assert.ErrorIs(t, err, ErrPubSubClosed)
	assert.ErrorIs(t, sub.Stop(), ErrSubscriptionClosed)
}

func TestPubSub_HandlerPanic(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	ps := New(client)
	defer ps.Close()

	done := make(chan struct{})
	calls := 0
	sub, err := ps.Subscribe(ctx, "t", Typed(func(ctx context.Context, n int) {
		calls++
		if n == 1 {
			panic("boom")
		}
		close(done)
	}), WithRecovery())
	require.NoError(t, err)
	sub.Loop()

	require.NoError(t, ps.Publish(ctx, "t", 1, 2))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
	assert.Equal(t, 2, calls)
}
