package redlock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestLock_TryLockAndUnlock(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	c := New(client, WithTtl(time.Second))

	key := c.RoundKey("r1")
	assert.Equal(t, "doudizhu:round:r1:lock", key)

	first, err := c.Locker(key)
	require.NoError(t, err)
	second, err := c.Locker(key)
	require.NoError(t, err)
	assert.NotEqual(t, first.Value(), second.Value())

	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// 别人不能释放
	assert.ErrorIs(t, second.Unlock(ctx), ErrLockNotHeld)
	assert.True(t, mr.Exists(key))

	require.NoError(t, first.Unlock(ctx))
	assert.False(t, mr.Exists(key))
}

func TestLock_Expire(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	c := New(client, WithTtl(time.Second))

	l, err := c.Locker("k")
	require.NoError(t, err)
	ok, err := l.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(500 * time.Millisecond)
	require.NoError(t, l.Refresh(ctx))
	mr.FastForward(800 * time.Millisecond)
	assert.True(t, mr.Exists("k"), "refresh should extend the ttl")

	mr.FastForward(time.Second)
	assert.False(t, mr.Exists("k"))
	assert.ErrorIs(t, l.Refresh(ctx), ErrLockNotHeld)
	assert.ErrorIs(t, l.Unlock(ctx), ErrLockNotHeld)
}

func TestLock_GiveUp(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	c := New(client, WithMaxRetries(2), WithRetryDelay(time.Millisecond))

	holder, err := c.Locker("busy")
	require.NoError(t, err)
	require.NoError(t, holder.Lock(ctx))

	waiter, err := c.Locker("busy")
	require.NoError(t, err)
	assert.ErrorIs(t, waiter.Lock(ctx), ErrNotAcquired)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	waiter, err = c.Locker("busy", WithMaxRetries(100))
	require.NoError(t, err)
	assert.ErrorIs(t, waiter.Lock(cancelled), context.Canceled)
}

func TestClient_Do(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	c := New(client, WithRetryDelay(time.Millisecond), WithMaxRetries(1000))

	_, err := c.Locker("")
	assert.ErrorIs(t, err, ErrInvalidArguments)

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.Do(ctx, "shared", func(ctx context.Context) error {
				n := inside.Add(1)
				if n > maxInside.Load() {
					maxInside.Store(n)
				}
				time.Sleep(2 * time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside.Load())
	assert.False(t, mr.Exists("shared"))

	boom := errors.New("boom")
	err = c.Do(ctx, "shared", func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("shared"))
}
