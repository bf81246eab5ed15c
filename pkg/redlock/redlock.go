package redlock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// 值匹配才删除，避免误删别人的锁
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

// 值匹配才续期
const refreshScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

// Locker 一把锁的操作
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Lock(ctx context.Context) error
	Refresh(ctx context.Context) error
	Unlock(ctx context.Context) error
	Key() string
	Value() string
}

// Client 按键创建锁，同一局的所有动作用同一个键串行执行
type Client struct {
	rdb  redis.Cmdable
	opts *options
}

// New 创建锁客户端，rdb 不能为 nil
func New(rdb redis.Cmdable, opts ...Option) *Client {
	if rdb == nil {
		log.Fatal().Msg("redlock: redis client cannot be nil")
	}
	o := new(options)
	o.maxRetries = 20
	o.apply(opts...).setDefault()
	return &Client{rdb: rdb, opts: o}
}

// RoundKey 一局的锁键
func (c *Client) RoundKey(roundId string) string {
	return c.opts.prefix + ":round:" + roundId + ":lock"
}

// Locker 返回 key 对应的锁，opts 覆盖默认选项
func (c *Client) Locker(key string, opts ...Option) (Locker, error) {
	if key == "" {
		return nil, ErrInvalidArguments
	}
	o := *c.opts
	o.apply(opts...).setDefault()
	return &lock{
		rdb:   c.rdb,
		key:   key,
		value: uuid.NewString(),
		opts:  o,
	}, nil
}

// Do 拿到锁后执行 fn，fn 返回后释放锁
// 锁在 fn 执行期间过期时返回 ErrLockNotHeld，fn 的错误优先返回
func (c *Client) Do(ctx context.Context, key string, fn func(ctx context.Context) error, opts ...Option) error {
	l, err := c.Locker(key, opts...)
	if err != nil {
		return err
	}
	if err := l.Lock(ctx); err != nil {
		return err
	}

	fnErr := fn(ctx)

	// 调用方取消时也要释放锁
	unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := l.Unlock(unlockCtx); err != nil {
		if fnErr != nil {
			return fnErr
		}
		return err
	}
	return fnErr
}

type lock struct {
	rdb   redis.Cmdable
	key   string
	value string
	opts  options
}

func (l *lock) Key() string {
	return l.key
}

func (l *lock) Value() string {
	return l.value
}

// TryLock 只尝试一次
func (l *lock) TryLock(ctx context.Context) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.key, l.value, l.opts.ttl).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Ctx(ctx).Error().Err(err).Str("key", l.key).Msg("redlock: setnx failed")
		return false, err
	}
	if ok {
		log.Ctx(ctx).Trace().Str("key", l.key).Dur("ttl", l.opts.ttl).Msg("redlock: acquired")
	}
	return ok, nil
}

// Lock 失败后按间隔重试，直到成功、重试用完或者 ctx 结束
func (l *lock) Lock(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		ok, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= l.opts.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			log.Ctx(ctx).Warn().Err(ctx.Err()).Str("key", l.key).Msg("redlock: cancelled while waiting")
			return ctx.Err()
		case <-time.After(l.opts.retryDelay):
		}
	}

	log.Ctx(ctx).Warn().Str("key", l.key).Int("retries", l.opts.maxRetries).Msg("redlock: gave up")
	return ErrNotAcquired
}

// Refresh 把过期时间重置为 ttl
func (l *lock) Refresh(ctx context.Context) error {
	n, err := l.rdb.Eval(ctx, refreshScript, []string{l.key}, l.value, l.opts.ttl.Milliseconds()).Int64()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrLockNotHeld
	}
	return nil
}

// Unlock 释放锁，锁已经不属于自己时返回 ErrLockNotHeld
func (l *lock) Unlock(ctx context.Context) error {
	n, err := l.rdb.Eval(ctx, unlockScript, []string{l.key}, l.value).Int64()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", l.key).Msg("redlock: unlock failed")
		return err
	}
	if n != 1 {
		log.Ctx(ctx).Warn().Str("key", l.key).Msg("redlock: lock expired before unlock")
		return ErrLockNotHeld
	}
	log.Ctx(ctx).Trace().Str("key", l.key).Msg("redlock: released")
	return nil
}
