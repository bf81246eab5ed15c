package table

import (
	"time"

	"github.com/google/uuid"

	"github.com/play/doudizhu/pkg/doudizhu"
)

type options struct {
	rules    doudizhu.Config
	throttle Throttle
	lockTtl  time.Duration
	newId    func() string
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) setDefault() {
	if o.rules == (doudizhu.Config{}) {
		o.rules = doudizhu.DefaultConfig()
	}
	if o.lockTtl <= 0 {
		o.lockTtl = 3 * time.Second
	}
	if o.newId == nil {
		o.newId = uuid.NewString
	}
}

type Option func(*options)

// WithRules 新局使用的规则
func WithRules(cfg doudizhu.Config) Option {
	return func(o *options) {
		o.rules = cfg
	}
}

// WithThrottle 按 局:座位 限制动作频率
func WithThrottle(t Throttle) Option {
	return func(o *options) {
		o.throttle = t
	}
}

// WithLockTtl 单个动作持有锁的最长时间
func WithLockTtl(ttl time.Duration) Option {
	return func(o *options) {
		o.lockTtl = ttl
	}
}

// WithIdGenerator 替换局 Id 的生成方式
func WithIdGenerator(fn func() string) Option {
	return func(o *options) {
		o.newId = fn
	}
}
