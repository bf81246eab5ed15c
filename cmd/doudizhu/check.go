package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/play/doudizhu/pkg/config"
	"github.com/play/doudizhu/pkg/doudizhu"
	"github.com/play/doudizhu/pkg/extension"
	"github.com/play/doudizhu/pkg/pubsub"
	"github.com/play/doudizhu/pkg/ratelimit"
	"github.com/play/doudizhu/pkg/redlock"
	"github.com/play/doudizhu/pkg/roundstore"
	"github.com/play/doudizhu/pkg/table"
)

const keyPrefix = "doudizhu"

func runCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	seed := fs.String("seed", "", "发牌种子，为空时使用局 Id")
	if err := setup(fs, args); err != nil {
		return err
	}

	rc := config.RedisFrom(settings)
	tc := config.TableFrom(settings)
	rules, err := doudizhu.ConfigFromViper(settings)
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{Addr: rc.Addr, DB: rc.Db, Password: rc.Password})
	bus := pubsub.New(rdb, pubsub.WithKeyTtl(tc.SnapshotTtl), pubsub.WithRecovery())

	var (
		sub      *pubsub.Subscription
		received atomic.Int32
	)
	exts := extension.NewManager().Register(
		extension.Func("redis", func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("connect redis %s: %w", rc.Addr, err)
			}
			return nil
		}, func() { rdb.Close() }),
		extension.Func("pubsub", nil, func() { bus.Close() }),
		extension.Func("events", func(ctx context.Context) error {
			var err error
			sub, err = bus.Subscribe(ctx, table.AllRoundsTopic, pubsub.Typed(func(ctx context.Context, ev table.Event) {
				received.Add(1)
				log.Debug().Str("round", ev.RoundId).Str("kind", string(ev.Kind)).Int64("version", ev.Version).Msg("event")
			}))
			if err != nil {
				return err
			}
			sub.Loop()
			return nil
		}, func() { sub.Stop() }),
	)
	if err := exts.LoadAll(ctx); err != nil {
		return err
	}
	defer exts.ExitAll()

	store := roundstore.New(rdb,
		roundstore.WithPrefix(keyPrefix),
		roundstore.WithTtl(tc.SnapshotTtl),
		roundstore.WithCache(tc.CacheSize, tc.CacheTtl),
	)
	svc, err := table.New(store,
		redlock.New(rdb, redlock.WithPrefix(keyPrefix), redlock.WithTtl(tc.LockTtl)),
		bus,
		table.WithRules(rules),
		table.WithLockTtl(tc.LockTtl),
		table.WithThrottle(newThrottle(rdb, tc)),
	)
	if err != nil {
		return err
	}

	r, err := svc.Create(ctx, table.CreateRequest{Seed: *seed})
	if err != nil {
		return err
	}
	if r, err = playThrough(ctx, svc, r, tc); err != nil {
		return err
	}

	summary, err := store.Peek(ctx, r.Id)
	if err != nil {
		return err
	}
	ev := log.Info().Str("round", r.Id).Int64("version", summary.Version).Bool("complete", summary.Complete)
	if r.Score != nil {
		ev = ev.Str("winner", r.Score.WinnerRole.String()).Ints("scores", r.Score.Scores[:])
	}
	ev.Msg("check finished")

	// 等订阅把事件消费完
	deadline := time.After(2 * time.Second)
	for received.Load() < int32(summary.Version)+1 {
		select {
		case <-deadline:
			log.Warn().Int32("received", received.Load()).Msg("not all events consumed")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}

// newThrottle table.throttle 为 redis 时多个进程共享限流
func newThrottle(rdb redis.Cmdable, tc config.Table) *ratelimit.Keyed {
	factory := ratelimit.MemoryFactory(tc.ActionRate, tc.ActionWindow)
	if tc.Throttle == "redis" {
		factory = ratelimit.RedisFactory(rdb, keyPrefix+":ratelimit", tc.ActionRate, tc.ActionWindow)
	}
	return ratelimit.NewKeyed(tc.CacheSize, 10*tc.ActionWindow, factory)
}

// playThrough 通过牌桌服务打完一局：第一个座位叫 3 分，都不加倍，出牌使用提示
// 都不叫时重新发牌
func playThrough(ctx context.Context, svc *table.Service, r *doudizhu.Round, tc config.Table) (*doudizhu.Round, error) {
	backoff := tc.ActionWindow / time.Duration(max(tc.ActionRate, 1))

	for steps := 0; ; steps++ {
		if steps > 1000 {
			return nil, fmt.Errorf("round %s did not finish", r.Id)
		}

		cur, err := svc.Round(ctx, r.Id)
		if err != nil {
			return nil, err
		}
		if cur.IsComplete() {
			if cur.Bidding.RedealRequired {
				if r, err = svc.Redeal(ctx, cur.Id); err != nil {
					return nil, err
				}
				continue
			}
			return cur, nil
		}

		seat := cur.CurrentSeat()
		var res doudizhu.Result
		switch cur.Phase {
		case doudizhu.PhaseBidding:
			bid := 0
			if cur.Bidding.HighestBid == 0 {
				bid = doudizhu.MaxBid
			}
			res, err = svc.Bid(ctx, cur.Id, seat, bid)
		case doudizhu.PhaseDoubling:
			res, err = svc.Double(ctx, cur.Id, seat, false)
		case doudizhu.PhasePlay:
			var cards doudizhu.Cards
			if cards, err = svc.Hint(ctx, cur.Id, seat); err == nil {
				res, err = svc.Play(ctx, cur.Id, seat, cards)
			}
		}

		switch {
		case errors.Is(err, table.ErrThrottled):
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		case err != nil:
			return nil, err
		case !res.Ok:
			return nil, fmt.Errorf("seat %d rejected in %s: %w", seat, cur.Phase, res.Reason)
		}
	}
}
