package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/play/doudizhu/pkg/config"
	"github.com/play/doudizhu/pkg/doudizhu"
	"github.com/play/doudizhu/pkg/worker"
)

// maxRedeals 连续都不叫超过这个次数就放弃这一局
const maxRedeals = 8

type simStats struct {
	mu          sync.Mutex
	rounds      int
	abandoned   int
	redeals     int
	landlordWin int
	springs     int
	bombs       int
	totals      [doudizhu.SeatCount]int
}

func (s *simStats) add(r *doudizhu.Round, redeals int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.redeals += redeals
	if r == nil || r.Score == nil {
		s.abandoned++
		return
	}
	s.rounds++
	if r.Score.WinnerRole == doudizhu.RoleLandlord {
		s.landlordWin++
	}
	if r.Score.Spring {
		s.springs++
	}
	s.bombs += r.Score.BombCount + r.Score.RocketCount
	for i, v := range r.Score.Scores {
		s.totals[i] += v
	}
}

func runSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	n := fs.Int("n", 1000, "局数")
	seed := fs.String("seed", "sim", "种子前缀，第 i 局使用 <seed>-<i>")
	workers := fs.Int("workers", 0, "并发数，0 时使用 table.workers")
	if err := setup(fs, args); err != nil {
		return err
	}

	rules, err := doudizhu.ConfigFromViper(settings)
	if err != nil {
		return err
	}
	if *workers <= 0 {
		*workers = config.TableFrom(settings).Workers
	}

	pool := worker.NewPool(*workers)
	stats := new(simStats)
	start := time.Now()

	for i := 0; i < *n; i++ {
		roundSeed := fmt.Sprintf("%s-%d", *seed, i)
		starting := doudizhu.Seat(i % doudizhu.SeatCount)
		err := pool.Go(ctx, func(ctx context.Context) {
			r, redeals, err := simulateRound(roundSeed, starting, rules)
			if err != nil {
				log.Error().Err(err).Str("seed", roundSeed).Msg("simulate round failed")
				return
			}
			if r != nil && r.Score != nil {
				log.Debug().Str("seed", roundSeed).
					Int("landlord", int(r.LandlordSeat)).
					Int("call", r.CallScore).
					Str("winner", r.Score.WinnerRole.String()).
					Ints("scores", r.Score.Scores[:]).
					Msg("settled")
			}
			stats.add(r, redeals)
		})
		if err != nil {
			// ctx 被取消，已经开始的局照常跑完
			log.Warn().Err(err).Int("submitted", i).Msg("simulation interrupted")
			break
		}
	}
	pool.Wait()

	rate := 0.0
	if stats.rounds > 0 {
		rate = float64(stats.landlordWin) / float64(stats.rounds)
	}
	log.Info().
		Int("rounds", stats.rounds).
		Int("abandoned", stats.abandoned).
		Int("redeals", stats.redeals).
		Float64("landlord_win_rate", rate).
		Int("springs", stats.springs).
		Int("bombs", stats.bombs).
		Ints("totals", stats.totals[:]).
		Dur("took", time.Since(start)).
		Msg("simulation finished")
	return nil
}

// simulateRound 打完一局，都不叫时换下一个座位先叫并重新发牌
// 返回 nil 表示重新发牌次数用完
func simulateRound(seed string, starting doudizhu.Seat, rules doudizhu.Config) (*doudizhu.Round, int, error) {
	for redeals := 0; redeals <= maxRedeals; redeals++ {
		r, err := doudizhu.NewRound(fmt.Sprintf("%s/%d", seed, redeals),
			doudizhu.WithId(seed),
			doudizhu.WithStartingSeat(starting),
			doudizhu.WithConfig(rules),
		)
		if err != nil {
			return nil, redeals, err
		}
		if err := autoPlay(r); err != nil {
			return nil, redeals, err
		}
		if !r.Bidding.RedealRequired {
			return r, redeals, nil
		}
		starting = starting.Next()
	}
	return nil, maxRedeals, nil
}

// autoPlay 按手牌强度叫分，不加倍，出牌使用 Hint
func autoPlay(r *doudizhu.Round) error {
	for steps := 0; !r.IsComplete(); steps++ {
		if steps > 1000 {
			return fmt.Errorf("round %s did not finish", r.Id)
		}

		seat := r.CurrentSeat()
		var res doudizhu.Result
		switch r.Phase {
		case doudizhu.PhaseBidding:
			bid := handStrength(r.Hand(seat))
			if bid <= r.Bidding.HighestBid {
				bid = 0
			}
			res = r.Bid(seat, bid)
		case doudizhu.PhaseDoubling:
			res = r.Double(seat, false)
		case doudizhu.PhasePlay:
			res = r.Play(seat, doudizhu.Hint(r.Hand(seat), r.Standing()))
		}
		if !res.Ok {
			return fmt.Errorf("seat %d in %s: %w", seat, r.Phase, res.Reason)
		}
	}
	return nil
}

// handStrength 粗略估计叫几分：王、2 和炸弹计分
func handStrength(hand doudizhu.Cards) int {
	points := 0
	for v, c := range hand.ValueCounts() {
		switch {
		case v == doudizhu.ValueBigJoker:
			points += 4
		case v == doudizhu.ValueSmallJoker:
			points += 3
		case v == int(doudizhu.Rank2):
			points += 2 * c
		case c == 4:
			points += 4
		}
	}
	switch {
	case points >= 10:
		return 3
	case points >= 7:
		return 2
	case points >= 4:
		return 1
	}
	return 0
}
