package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimit(t *testing.T) {
	ctx := context.Background()
	rl := NewMemory(3, time.Second)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }
	rl.lastCheck = now

	for i := range 3 {
		assert.False(t, rl.Limit(ctx), "call %d should pass", i)
	}
	assert.True(t, rl.Limit(ctx))

	rl.Undo()
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))

	// 半秒补 1.5 个令牌
	now = now.Add(time.Second / 2)
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))

	// 补满后不超过容量
	now = now.Add(time.Minute)
	for range 3 {
		assert.False(t, rl.Limit(ctx))
	}
	assert.True(t, rl.Limit(ctx))

	rl.UpdateRate(1)
	now = now.Add(time.Minute)
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))
}

func TestRedisRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	rl := NewRedis(client, "test:rl", 2, time.Minute)
	assert.False(t, rl.Limit(ctx))
	assert.False(t, rl.Limit(ctx))
	assert.True(t, rl.Limit(ctx))
	assert.True(t, mr.Exists("test:rl"))

	rl.UpdateRate(3)
	assert.False(t, rl.Limit(ctx))

	// Redis 不可用时放行
	mr.Close()
	assert.False(t, rl.Limit(ctx))
}

func TestKeyed(t *testing.T) {
	ctx := context.Background()
	created := 0
	k := NewKeyed(2, time.Minute, func(key string) RateLimiter {
		created++
		return NewMemory(1, time.Hour)
	})

	assert.False(t, k.Limit(ctx, "r1:0"))
	assert.True(t, k.Limit(ctx, "r1:0"))
	assert.False(t, k.Limit(ctx, "r1:1"), "seats are limited separately")
	assert.Equal(t, 2, created)

	// 超过容量后最久未用的键被淘汰，重新创建的限流器是满的
	assert.False(t, k.Limit(ctx, "r1:2"))
	assert.Equal(t, 2, k.Len())
	assert.False(t, k.Limit(ctx, "r1:0"))
	assert.Equal(t, 4, created)
}
