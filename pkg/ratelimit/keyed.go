package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Keyed 按键分别限流，限流器放在有上限的 LRU 中，长时间不用的键自动淘汰
type Keyed struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, RateLimiter]
	factory  Factory
}

// NewKeyed size 为最多保留的键数，idle 为键的闲置过期时间
func NewKeyed(size int, idle time.Duration, factory Factory) *Keyed {
	if size <= 0 {
		size = 1024
	}
	return &Keyed{
		limiters: expirable.NewLRU[string, RateLimiter](size, nil, idle),
		factory:  factory,
	}
}

// Limit 超过 key 的限制时返回 true
func (k *Keyed) Limit(ctx context.Context, key string) bool {
	return k.get(key).Limit(ctx)
}

// Len 当前保留的键数
func (k *Keyed) Len() int {
	return k.limiters.Len()
}

func (k *Keyed) get(key string) RateLimiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if rl, ok := k.limiters.Get(key); ok {
		return rl
	}
	rl := k.factory(key)
	k.limiters.Add(key, rl)
	return rl
}
