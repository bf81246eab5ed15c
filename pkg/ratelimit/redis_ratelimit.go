package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// 滑动窗口：清掉窗口外的记录，未超限时记录本次
// KEYS[1] 键  ARGV[1] 窗口起点  ARGV[2] 当前时间  ARGV[3] 上限  ARGV[4] 成员  ARGV[5] 过期毫秒
const slidingWindowScript = `
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
if redis.call("ZCARD", KEYS[1]) >= tonumber(ARGV[3]) then
    return 1
end
redis.call("ZADD", KEYS[1], ARGV[2], ARGV[4])
redis.call("PEXPIRE", KEYS[1], ARGV[5])
return 0
`

// RedisRateLimit 多个实例共享的滑动窗口限流器
type RedisRateLimit struct {
	rdb      redis.Cmdable
	key      string
	rate     int
	duration time.Duration
}

// NewRedis 每 duration 时间最多 rate 次
func NewRedis(rdb redis.Cmdable, key string, rate int, duration time.Duration) *RedisRateLimit {
	if rate < 1 {
		rate = 1
	}
	if duration <= 0 {
		duration = time.Second
	}
	return &RedisRateLimit{
		rdb:      rdb,
		key:      key,
		rate:     rate,
		duration: duration,
	}
}

// RedisFactory 键为 prefix:ratelimit:<key>
func RedisFactory(rdb redis.Cmdable, prefix string, rate int, duration time.Duration) Factory {
	return func(key string) RateLimiter {
		return NewRedis(rdb, prefix+":ratelimit:"+key, rate, duration)
	}
}

// Limit Redis 出错时放行
func (rl *RedisRateLimit) Limit(ctx context.Context) bool {
	now := time.Now()
	start := now.Add(-rl.duration)

	limited, err := rl.rdb.Eval(ctx, slidingWindowScript, []string{rl.key},
		start.UnixMicro(), now.UnixMicro(), rl.rate, uuid.NewString(), (rl.duration + time.Second).Milliseconds(),
	).Int64()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", rl.key).Msg("ratelimit: redis check failed, allowing")
		return false
	}
	return limited == 1
}

// UpdateRate 修改上限
func (rl *RedisRateLimit) UpdateRate(rate int) {
	if rate < 1 {
		rate = 1
	}
	rl.rate = rate
}
