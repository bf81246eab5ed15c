package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

var (
	ErrPoolClosed = errors.New("pool is closed")
)

// Pool 限制同时运行的任务数量，每个任务占用一张票据
type Pool struct {
	limit   int
	tickets chan int
	running atomic.Int32
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
}

// NewPool limit <= 0 时默认为 10
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = 10
	}

	p := &Pool{
		limit:   limit,
		tickets: make(chan int, limit),
	}
	for i := range limit {
		p.tickets <- i
	}
	return p
}

// Go 等到有空闲票据后在新的 goroutine 中执行 job
// ctx 结束时放弃等待；job panic 会被记录，不影响其他任务
func (p *Pool) Go(ctx context.Context, job func(ctx context.Context)) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	var ticket int
	select {
	case <-ctx.Done():
		return ctx.Err()
	case t, ok := <-p.tickets:
		if !ok {
			return ErrPoolClosed
		}
		ticket = t
	}

	p.running.Add(1)
	p.wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Ctx(ctx).Error().Interface("panic", r).Int("ticket", ticket).Msg("worker job panicked")
			}
			p.running.Add(-1)
			p.tickets <- ticket
			p.wg.Done()
		}()
		if job != nil {
			job(ctx)
		}
	}()
	return nil
}

// Wait 等待已经提交的任务全部结束，之后不再接受新任务
func (p *Pool) Wait() {
	p.closed.Store(true)
	p.wg.Wait()
	p.once.Do(func() {
		close(p.tickets)
	})
}

// Running 正在执行的任务数
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// Limit 最大并发数
func (p *Pool) Limit() int {
	return p.limit
}
