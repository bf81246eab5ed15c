package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	ErrQueueFull          = errors.New("queue is full")
	ErrNilHandler         = errors.New("handler is nil")
	ErrSubscriptionClosed = errors.New("subscription is closed")
	ErrPubSubClosed       = errors.New("pubsub is closed")
)

const (
	redisKeyPrefix      = "pubsub:topic:"
	blpopTimeout        = time.Second
	defaultQueueSize    = 1000
	defaultDataChanSize = 100
	stopTimeout         = 10 * time.Second
)

// Handler 处理一条消息的原始 JSON
type Handler func(ctx context.Context, payload []byte) error

// Typed 把消息解码成 T 后交给 fn
func Typed[T any](fn func(ctx context.Context, msg T)) Handler {
	return func(ctx context.Context, payload []byte) error {
		var msg T
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("decode %T: %w", msg, err)
		}
		fn(ctx, msg)
		return nil
	}
}

// Option 同时用于 PubSub 和 Subscription
type Option func(any)

// PubSub 基于 Redis List 的消息队列，每条消息只会被一个订阅者消费
type PubSub struct {
	rdb           redis.Cmdable
	queueSize     int
	keyTtl        time.Duration
	useRecovery   bool
	mu            sync.Mutex
	subscriptions map[*Subscription]struct{}
	closed        chan struct{}
}

// Subscription 一个 topic 的消费者，Loop 之后开始消费
type Subscription struct {
	pubSub      *PubSub
	topic       string
	redisKey    string
	handler     Handler
	concurrency int
	useRecovery bool
	dataChan    chan []byte
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	stopOnce    sync.Once
}

// WithQueueSize 发布前检查的队列长度上限，0 表示不限制
func WithQueueSize(qs int) Option {
	return func(o any) {
		if ps, ok := o.(*PubSub); ok && qs >= 0 {
			ps.queueSize = qs
		}
	}
}

// WithKeyTtl 每次发布后刷新队列键的过期时间，没有人消费的 topic 最终会被清理
func WithKeyTtl(ttl time.Duration) Option {
	return func(o any) {
		if ps, ok := o.(*PubSub); ok {
			ps.keyTtl = ttl
		}
	}
}

// WithRecovery 处理函数 panic 时记录日志而不是退出
func WithRecovery() Option {
	return func(o any) {
		switch v := o.(type) {
		case *Subscription:
			v.useRecovery = true
		case *PubSub:
			v.useRecovery = true
		}
	}
}

// WithConcurrency 处理函数的并发数，c <= 0 时为 1
func WithConcurrency(c int) Option {
	return func(o any) {
		if s, ok := o.(*Subscription); ok {
			s.concurrency = max(c, 1)
		}
	}
}

// New
func New(rdb redis.Cmdable, opts ...Option) *PubSub {
	ps := &PubSub{
		rdb:           rdb,
		queueSize:     defaultQueueSize,
		subscriptions: make(map[*Subscription]struct{}),
		closed:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ps)
	}
	log.Trace().Int("queue_size", ps.queueSize).Dur("key_ttl", ps.keyTtl).Msg("pubsub initialized")
	return ps
}

func formatTopicKey(topic string) string {
	return redisKeyPrefix + topic
}

func (p *PubSub) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// Publish 把 msgs 逐条编码为 JSON 后推入 topic，全部成功或全部失败
func (p *PubSub) Publish(ctx context.Context, topic string, msgs ...any) error {
	if p.isClosed() {
		return ErrPubSubClosed
	}
	if len(msgs) == 0 {
		return nil
	}

	key := formatTopicKey(topic)
	if p.queueSize > 0 {
		length, err := p.rdb.LLen(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("pubsub: llen %s: %w", topic, err)
		}
		if length+int64(len(msgs)) > int64(p.queueSize) {
			log.Ctx(ctx).Warn().Str("topic", topic).Int64("length", length).Int("batch", len(msgs)).Msg("pubsub: queue full")
			return ErrQueueFull
		}
	}

	payloads := make([]any, 0, len(msgs))
	for i, msg := range msgs {
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("pubsub: marshal message %d: %w", i, err)
		}
		payloads = append(payloads, payload)
	}

	_, err := p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payloads...)
		if p.keyTtl > 0 {
			pipe.Expire(ctx, key, p.keyTtl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pubsub: rpush %s: %w", topic, err)
	}
	log.Ctx(ctx).Trace().Str("topic", topic).Int("batch", len(msgs)).Msg("pubsub: published")
	return nil
}

// Subscribe 订阅 topic，调用 Loop 后开始消费
func (p *PubSub) Subscribe(ctx context.Context, topic string, handler Handler, opts ...Option) (*Subscription, error) {
	if p.isClosed() {
		return nil, ErrPubSubClosed
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		pubSub:      p,
		topic:       topic,
		redisKey:    formatTopicKey(topic),
		handler:     handler,
		concurrency: 1,
		useRecovery: p.useRecovery,
		dataChan:    make(chan []byte, defaultDataChanSize),
		ctx:         subCtx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	p.mu.Lock()
	p.subscriptions[s] = struct{}{}
	p.mu.Unlock()
	return s, nil
}

// Close 停止所有订阅
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.isClosed() {
		p.mu.Unlock()
		return nil
	}
	close(p.closed)
	subs := make([]*Subscription, 0, len(p.subscriptions))
	for s := range p.subscriptions {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	for _, s := range subs {
		if err := s.Stop(); err != nil && !errors.Is(err, ErrSubscriptionClosed) {
			log.Error().Err(err).Str("topic", s.topic).Msg("pubsub: stop subscription")
		}
	}
	log.Debug().Int("subscriptions", len(subs)).Msg("pubsub closed")
	return nil
}

// Loop 启动一个 BLPOP 协程和 concurrency 个处理协程
func (s *Subscription) Loop() {
	s.wg.Add(1)
	go s.pop()
	for i := range s.concurrency {
		s.wg.Add(1)
		go s.work(i)
	}
	log.Debug().Str("topic", s.topic).Int("workers", s.concurrency).Msg("pubsub: subscription started")
}

func (s *Subscription) pop() {
	defer s.wg.Done()

	for s.ctx.Err() == nil {
		results, err := s.pubSub.rdb.BLPop(s.ctx, blpopTimeout, s.redisKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || s.ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Str("topic", s.topic).Msg("pubsub: blpop failed")
			select {
			case <-s.ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if len(results) != 2 {
			continue
		}

		select {
		case s.dataChan <- []byte(results[1]):
		case <-s.ctx.Done():
			log.Warn().Str("topic", s.topic).Msg("pubsub: stopping, message dropped")
			return
		}
	}
}

func (s *Subscription) work(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case payload := <-s.dataChan:
			s.handle(id, payload)
		}
	}
}

func (s *Subscription) handle(worker int, payload []byte) {
	if s.useRecovery {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("topic", s.topic).Int("worker", worker).Interface("panic", r).Msg("pubsub: handler panicked")
			}
		}()
	}
	if err := s.handler(s.ctx, payload); err != nil {
		log.Error().Err(err).Str("topic", s.topic).Int("worker", worker).Bytes("payload", payload).Msg("pubsub: handler failed")
	}
}

// Stop 停止消费并等待协程退出
func (s *Subscription) Stop() error {
	err := ErrSubscriptionClosed
	s.stopOnce.Do(func() {
		err = nil
		s.pubSub.mu.Lock()
		delete(s.pubSub.subscriptions, s)
		s.pubSub.mu.Unlock()

		s.cancel()
		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(stopTimeout):
			log.Error().Str("topic", s.topic).Msg("pubsub: stop timed out")
		}
	})
	return err
}
