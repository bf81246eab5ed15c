package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimit 进程内的令牌桶，线程安全
// 桶容量为 rate，每 per 时间补满
type MemoryRateLimit struct {
	mu sync.Mutex

	rate      float64
	per       time.Duration
	tokens    float64
	lastCheck time.Time
	now       func() time.Time
}

// NewMemory 每 per 时间最多 rate 次
func NewMemory(rate int, per time.Duration) *MemoryRateLimit {
	if per <= 0 {
		per = time.Second
	}
	if rate < 1 {
		rate = 1
	}
	rl := &MemoryRateLimit{
		rate:   float64(rate),
		per:    per,
		tokens: float64(rate),
		now:    time.Now,
	}
	rl.lastCheck = rl.now()
	return rl
}

// MemoryFactory 每个键一个独立的令牌桶
func MemoryFactory(rate int, per time.Duration) Factory {
	return func(string) RateLimiter {
		return NewMemory(rate, per)
	}
}

// UpdateRate 修改频率，已有的令牌不超过新的容量
func (rl *MemoryRateLimit) UpdateRate(rate int) {
	if rate < 1 {
		rate = 1
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.rate = float64(rate)
	rl.tokens = min(rl.tokens, rl.rate)
}

// Limit 没有令牌时返回 true
func (rl *MemoryRateLimit) Limit(_ context.Context) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	passed := now.Sub(rl.lastCheck)
	rl.lastCheck = now

	rl.tokens = min(rl.rate, rl.tokens+passed.Seconds()/rl.per.Seconds()*rl.rate)
	if rl.tokens < 1 {
		return true
	}
	rl.tokens--
	return false
}

// Undo 返还上一次 Limit 消耗的令牌
func (rl *MemoryRateLimit) Undo() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens = min(rl.rate, rl.tokens+1)
}
