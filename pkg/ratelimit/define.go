package ratelimit

import (
	"context"
)

// RateLimiter 限流器，超过限制时 Limit 返回 true
type RateLimiter interface {
	Limit(ctx context.Context) bool
}

// Factory 按键创建限流器
type Factory func(key string) RateLimiter
