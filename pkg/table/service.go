package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/play/doudizhu/pkg/doudizhu"
	"github.com/play/doudizhu/pkg/logger"
	"github.com/play/doudizhu/pkg/redlock"
	"github.com/play/doudizhu/pkg/roundstore"
)

var (
	ErrThrottled = errors.New("too many actions")
	ErrNoRedeal  = errors.New("round does not need a redeal")
)

// Store 局存档
type Store interface {
	Save(ctx context.Context, r *doudizhu.Round, expect int64) (int64, error)
	Load(ctx context.Context, id string) (*roundstore.Snapshot, error)
	Cached(ctx context.Context, id string) (*roundstore.Snapshot, error)
}

// Locker 串行化同一局的动作
type Locker interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error, opts ...redlock.Option) error
	RoundKey(id string) string
}

// Publisher 发布事件
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...any) error
}

// Throttle 超过限制时返回 true
type Throttle interface {
	Limit(ctx context.Context, key string) bool
}

// Service 托管多局游戏，规则判断全部交给 doudizhu.Round
// 每个动作：限流、加锁、读取存档、执行、保存、发布事件
type Service struct {
	store Store
	lock  Locker
	bus   Publisher
	opts  *options
}

// New
func New(store Store, lock Locker, bus Publisher, opts ...Option) (*Service, error) {
	o := new(options)
	o.apply(opts...).setDefault()
	if err := o.rules.Validate(); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	return &Service{store: store, lock: lock, bus: bus, opts: o}, nil
}

// CreateRequest 开局参数，Seed 为空时使用局 Id
type CreateRequest struct {
	Seed         string
	StartingSeat doudizhu.Seat
}

// Create 开一局新的并发牌
func (s *Service) Create(ctx context.Context, req CreateRequest) (*doudizhu.Round, error) {
	id := s.opts.newId()
	seed := req.Seed
	if seed == "" {
		seed = id
	}

	r, err := doudizhu.NewRound(seed,
		doudizhu.WithId(id),
		doudizhu.WithStartingSeat(req.StartingSeat),
		doudizhu.WithConfig(s.opts.rules),
	)
	if err != nil {
		return nil, err
	}

	ctx = withRoundLogger(ctx, id, req.StartingSeat, EventCreated)
	version, err := s.store.Save(ctx, r, 0)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, newEvent(r, EventCreated, req.StartingSeat, version, createdPayload{
		StartingSeat: req.StartingSeat,
		HandSizes:    r.HandSizes(),
	}))

	log.Ctx(ctx).Info().Str("seed", seed).Msg("round created")
	return r, nil
}

// Bid 叫分
func (s *Service) Bid(ctx context.Context, id string, seat doudizhu.Seat, value int) (doudizhu.Result, error) {
	return s.apply(ctx, id, seat, EventBid, func(r *doudizhu.Round) (doudizhu.Result, any) {
		res := r.Bid(seat, value)
		return res, bidPayload{
			Value:         value,
			HighestBid:    r.Bidding.HighestBid,
			HighestBidder: r.Bidding.HighestBidder,
			Landlord:      r.LandlordSeat,
		}
	})
}

// Double 加倍或反加倍
func (s *Service) Double(ctx context.Context, id string, seat doudizhu.Seat, doubled bool) (doudizhu.Result, error) {
	return s.apply(ctx, id, seat, EventDouble, func(r *doudizhu.Round) (doudizhu.Result, any) {
		res := r.Double(seat, doubled)
		return res, doublePayload{Doubled: doubled, Phase: r.Phase}
	})
}

// Play 出牌，cards 为空表示不要
func (s *Service) Play(ctx context.Context, id string, seat doudizhu.Seat, cards doudizhu.Cards) (doudizhu.Result, error) {
	return s.apply(ctx, id, seat, EventPlay, func(r *doudizhu.Round) (doudizhu.Result, any) {
		res := r.Play(seat, cards)
		payload := playPayload{HandSizes: r.HandSizes(), Next: r.CurrentSeat()}
		if n := len(r.Playing.History); res.Ok && n > 0 {
			payload.Combo = r.Playing.History[n-1].Combo
		}
		return res, payload
	})
}

// Redeal 所有人都不叫时用下一个座位开始重新发牌
func (s *Service) Redeal(ctx context.Context, id string) (*doudizhu.Round, error) {
	snap, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	old := snap.Round
	if !old.Bidding.RedealRequired {
		return nil, fmt.Errorf("%w: %s", ErrNoRedeal, id)
	}
	return s.Create(ctx, CreateRequest{
		Seed:         old.Seed + "/redeal",
		StartingSeat: old.Bidding.StartingSeat.Next(),
	})
}

// Round 只读查询，可能读到稍旧的缓存
func (s *Service) Round(ctx context.Context, id string) (*doudizhu.Round, error) {
	snap, err := s.store.Cached(ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.Round, nil
}

// View 座位视角下的局面，看不到别人的手牌
func (s *Service) View(ctx context.Context, id string, seat doudizhu.Seat) (*SeatView, error) {
	if !seat.Valid() {
		return nil, doudizhu.ReasonMissingPlayer
	}
	snap, err := s.store.Cached(ctx, id)
	if err != nil {
		return nil, err
	}
	return newSeatView(snap.Round, seat, snap.Version), nil
}

// Hint 给座位的出牌建议，不在出牌阶段或者要不起时返回 nil
func (s *Service) Hint(ctx context.Context, id string, seat doudizhu.Seat) (doudizhu.Cards, error) {
	snap, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	r := snap.Round
	if r.Phase != doudizhu.PhasePlay || !seat.Valid() {
		return nil, nil
	}
	return doudizhu.Hint(r.Hand(seat), r.Standing()), nil
}

func (s *Service) apply(ctx context.Context, id string, seat doudizhu.Seat, kind EventKind, act func(r *doudizhu.Round) (doudizhu.Result, any)) (doudizhu.Result, error) {
	ctx = withRoundLogger(ctx, id, seat, kind)

	if t := s.opts.throttle; t != nil && t.Limit(ctx, fmt.Sprintf("%s:%d", id, seat)) {
		log.Ctx(ctx).Warn().Msg("action throttled")
		return doudizhu.Result{}, ErrThrottled
	}

	var res doudizhu.Result
	start := time.Now()
	err := s.lock.Do(ctx, s.lock.RoundKey(id), func(ctx context.Context) error {
		snap, err := s.store.Load(ctx, id)
		if err != nil {
			return err
		}
		r := snap.Round

		var payload any
		res, payload = act(r)
		if !res.Ok {
			if logger.Traced() {
				log.Ctx(ctx).Debug().Str("reason", string(res.Reason)).Msg("action rejected")
			}
			return nil
		}

		version, err := s.store.Save(ctx, r, snap.Version)
		if err != nil {
			return err
		}

		events := []Event{newEvent(r, kind, seat, version, payload)}
		if r.IsComplete() {
			events = append(events, newEvent(r, EventComplete, seat, version, completePayload{
				Redeal: r.Bidding.RedealRequired,
				Score:  r.Score,
			}))
			logComplete(ctx, r)
		}
		s.publish(ctx, events...)
		return nil
	}, redlock.WithTtl(s.opts.lockTtl))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("action failed")
		return doudizhu.Result{}, err
	}

	if logger.Traced() {
		log.Ctx(ctx).Debug().Bool("ok", res.Ok).Bool("finished", res.Finished).Dur("took", time.Since(start)).Msg("action applied")
	}
	return res, nil
}

// publish 失败只记录日志，动作已经保存
func (s *Service) publish(ctx context.Context, events ...Event) {
	if s.bus == nil || len(events) == 0 {
		return
	}
	msgs := make([]any, len(events))
	for i, ev := range events {
		msgs[i] = ev
	}
	id := events[0].RoundId
	for _, topic := range []string{RoundTopic(id), AllRoundsTopic} {
		if err := s.bus.Publish(ctx, topic, msgs...); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("publish events failed")
		}
	}
}

func withRoundLogger(ctx context.Context, id string, seat doudizhu.Seat, kind EventKind) context.Context {
	l := log.With().Str("round", id).Int("seat", int(seat)).Str("action", string(kind)).Logger()
	return l.WithContext(ctx)
}

func logComplete(ctx context.Context, r *doudizhu.Round) {
	e := log.Ctx(ctx).Info()
	if r.Score != nil {
		e = e.Int("landlord", int(r.LandlordSeat)).
			Int("winner", int(r.Playing.Winner)).
			Bool("spring", r.Score.Spring).
			Ints("scores", r.Score.Scores[:])
	} else {
		e = e.Bool("redeal", r.Bidding.RedealRequired)
	}
	e.Msg("round complete")
}
