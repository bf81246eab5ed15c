package roundstore

import "time"

type options struct {
	prefix    string
	ttl       time.Duration
	cacheSize int
	cacheTtl  time.Duration
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
	if o.ttl < 0 {
		o.ttl = 0
	}
	if o.cacheSize <= 0 {
		o.cacheSize = 4096
	}
	if o.cacheTtl <= 0 {
		o.cacheTtl = 30 * time.Second
	}
}

type Option func(*options)

// WithPrefix 键前缀
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTtl 存档过期时间，0 表示不过期
func WithTtl(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithCache 本地缓存大小和过期时间
func WithCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheSize = size
		o.cacheTtl = ttl
	}
}
