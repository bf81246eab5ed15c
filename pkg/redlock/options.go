package redlock

import (
	"time"
)

type options struct {
	prefix     string
	ttl        time.Duration
	maxRetries int
	retryDelay time.Duration
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) setDefault() {
	if o.prefix == "" {
		o.prefix = "doudizhu"
	}
	if o.ttl <= 0 {
		o.ttl = 3 * time.Second
	}
	if o.maxRetries < 0 {
		o.maxRetries = 0
	}
	if o.retryDelay <= 0 {
		o.retryDelay = 50 * time.Millisecond
	}
}

type Option func(*options)

// WithPrefix 锁键的前缀
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTtl 锁的过期时间，持有者崩溃后最多阻塞这么久
func WithTtl(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithMaxRetries 获取锁失败后的重试次数
func WithMaxRetries(retries int) Option {
	return func(o *options) {
		o.maxRetries = retries
	}
}

// WithRetryDelay 两次重试之间的间隔
func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		o.retryDelay = delay
	}
}
