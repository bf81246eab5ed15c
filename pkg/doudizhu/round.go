package doudizhu

import (
	"errors"
	"fmt"
)

// PlayRecord 出牌记录，PASS 也会记录
type PlayRecord struct {
	Seat  Seat   `json:"seat"`
	Combo *Combo `json:"combo"`
}

// PlayState 出牌阶段的状态
type PlayState struct {
	Trick       TrickState     `json:"trick"`
	PlayCounts  [SeatCount]int `json:"playCounts"` // 每个座位出过的非 PASS 次数
	BombCount   int            `json:"bombCount"`
	RocketCount int            `json:"rocketCount"`
	History     []PlayRecord   `json:"history"`
	Winner      Seat           `json:"winner"`
}

// Round 一局游戏
// 只能通过 Bid、Double、Play 修改，Phase 为 PhaseComplete 后不再变化
// 不是并发安全的，同一局的所有动作必须由调用方串行化
type Round struct {
	Id           string            `json:"id"`
	Seed         string            `json:"seed"`
	Config       Config            `json:"config"`
	Phase        Phase             `json:"phase"`
	BottomCards  Cards             `json:"bottomCards"`
	Players      [SeatCount]Player `json:"players"`
	LandlordSeat Seat              `json:"landlordSeat"`
	CallScore    int               `json:"callScore"`
	Bidding      BiddingState      `json:"bidding"`
	Doubling     DoublingState     `json:"doubling"`
	Playing      PlayState         `json:"playing"`
	Score        *ScoreBreakdown   `json:"score,omitempty"`
}

type options struct {
	id           string
	startingSeat Seat
	config       Config
	shuffler     Shuffler
}

// Option 创建一局时的可选参数
type Option func(*options)

// WithId 设置局 Id
func WithId(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithStartingSeat 设置第一个叫分的座位
func WithStartingSeat(seat Seat) Option {
	return func(o *options) {
		o.startingSeat = seat
	}
}

// WithConfig 设置规则
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithShuffler 替换洗牌策略
func WithShuffler(s Shuffler) Option {
	return func(o *options) {
		if s != nil {
			o.shuffler = s
		}
	}
}

var ErrInvalidStartingSeat = errors.New("invalid starting seat")

// NewRound 创建一局并发牌
// 用 seed 洗一副 54 张的牌，轮流每人发一张共 17 轮，剩余 3 张为底牌
func NewRound(seed string, opts ...Option) (*Round, error) {
	o := &options{
		startingSeat: 0,
		config:       DefaultConfig(),
		shuffler:     SeededShuffler{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if !o.startingSeat.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStartingSeat, o.startingSeat)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	r := &Round{
		Id:           o.id,
		Seed:         seed,
		Config:       o.config,
		Phase:        PhaseBidding,
		LandlordSeat: NoSeat,
		Bidding:      newBiddingState(o.startingSeat),
		Playing:      PlayState{Winner: NoSeat, Trick: NewTrick(NoSeat)},
	}

	shoe := o.shuffler.Shuffle(NewDeck(1, false), seed)
	draw := func() Card {
		if len(shoe) == 0 {
			panic("doudizhu: shoe exhausted while dealing")
		}
		c := shoe[0]
		shoe = shoe[1:]
		return c
	}

	for i := range r.Players {
		r.Players[i] = NewPlayer(Seat(i))
		r.Players[i].Hand = make(Cards, 0, HandSize+BottomSize)
	}
	for range HandSize {
		for i := range r.Players {
			r.Players[i].Hand = append(r.Players[i].Hand, draw())
		}
	}
	r.BottomCards = make(Cards, 0, BottomSize)
	for range BottomSize {
		r.BottomCards = append(r.BottomCards, draw())
	}
	return r, nil
}

// IsComplete 本局是否结束
func (r *Round) IsComplete() bool {
	return r.Phase == PhaseComplete
}

// CurrentSeat 当前应该行动的座位，结束后为 NoSeat
func (r *Round) CurrentSeat() Seat {
	switch r.Phase {
	case PhaseBidding:
		return r.Bidding.CurrentSeat
	case PhaseDoubling:
		return r.Doubling.CurrentSeat()
	case PhasePlay:
		return r.Playing.Trick.Current
	}
	return NoSeat
}

// Hand 返回座位的手牌
func (r *Round) Hand(seat Seat) Cards {
	if !seat.Valid() {
		return nil
	}
	return r.Players[seat].Hand
}

// HandSizes 每个座位的手牌数
func (r *Round) HandSizes() [SeatCount]int {
	var sizes [SeatCount]int
	for i, p := range r.Players {
		sizes[i] = p.HandCount()
	}
	return sizes
}

// Standing 当前需要压过的牌型，首出时为 nil
func (r *Round) Standing() *Combo {
	return r.Playing.Trick.Standing()
}

// Bid 叫分，bid 为 0 表示不叫
func (r *Round) Bid(seat Seat, bid int) Result {
	if r.Phase == PhaseComplete {
		return reject(ReasonRoundComplete)
	}
	if r.Phase != PhaseBidding {
		return reject(ReasonBiddingClosed)
	}
	if !seat.Valid() {
		return reject(ReasonMissingPlayer)
	}
	if reason := r.Bidding.check(seat, bid); reason != ReasonNone {
		return reject(reason)
	}

	b := &r.Bidding
	b.record(seat, bid)

	switch {
	case b.hasLeader():
		b.Finished = true
		r.assignLandlord(b.HighestBidder, b.HighestBid)
		return accept(true)
	case b.allPassed():
		b.Finished = true
		b.RedealRequired = true
		r.Phase = PhaseComplete
		return accept(true)
	}

	b.CurrentSeat = seat.Next()
	return accept(false)
}

// assignLandlord 确定地主，底牌并入地主手牌
func (r *Round) assignLandlord(seat Seat, callScore int) {
	r.LandlordSeat = seat
	r.CallScore = callScore
	for i := range r.Players {
		r.Players[i].Role = RoleFarmer
	}
	r.Players[seat].Role = RoleLandlord

	if r.Config.RevealBottom {
		r.BottomCards = r.BottomCards.WithFaceUp(true)
	}
	r.Players[seat].Take(r.BottomCards)

	r.Doubling = newDoublingState(seat, r.Config.DoublingEnabled)
	r.Playing.Trick = NewTrick(seat)
	if r.Doubling.Finished {
		r.Phase = PhasePlay
		return
	}
	r.Phase = PhaseDoubling
}

// Double 加倍表态，农民为加倍，地主为反加倍
func (r *Round) Double(seat Seat, doubled bool) Result {
	if r.Phase == PhaseComplete {
		return reject(ReasonRoundComplete)
	}
	if r.Phase != PhaseDoubling {
		return reject(ReasonDoublingClosed)
	}
	if !seat.Valid() {
		return reject(ReasonMissingPlayer)
	}
	if seat != r.Doubling.CurrentSeat() {
		return reject(ReasonNotYourTurn)
	}

	if !r.Doubling.record(seat, doubled) {
		return accept(false)
	}
	r.Phase = PhasePlay
	r.Playing.Trick = NewTrick(r.LandlordSeat)
	return accept(true)
}

// Play 出牌，cards 为空表示不要
// 校验失败时不修改任何状态；手牌出完立即结束本局并结算
func (r *Round) Play(seat Seat, cards Cards) Result {
	if r.Phase == PhaseComplete {
		return reject(ReasonRoundComplete)
	}
	if r.Phase != PhasePlay {
		return reject(ReasonNotYourTurn)
	}
	if !seat.Valid() {
		return reject(ReasonMissingPlayer)
	}

	p := &r.Playing
	if seat != p.Trick.Current {
		return reject(ReasonNotYourTurn)
	}

	combo := Classify(cards)
	if combo == nil {
		return reject(ReasonInvalidCombo)
	}

	player := &r.Players[seat]
	if combo.IsPass() {
		if p.Trick.IsLeading() {
			return reject(ReasonCannotPassWhenLeading)
		}
	} else {
		if !player.Holds(combo.Cards) {
			return reject(ReasonCardsNotInHand)
		}
		if !Beats(combo, p.Trick.Standing()) {
			return reject(ReasonDoesNotBeat)
		}
		player.Remove(combo.Cards)
		p.PlayCounts[seat]++
		switch combo.Type {
		case ComboBomb:
			p.BombCount++
		case ComboRocket:
			p.RocketCount++
		}
	}

	if _, reason := p.Trick.Advance(seat, combo); reason != ReasonNone {
		// 上面已经排除了首出 PASS
		panic(fmt.Sprintf("doudizhu: trick rejected a validated play: %s", reason))
	}
	p.History = append(p.History, PlayRecord{Seat: seat, Combo: combo})

	if !combo.IsPass() && player.HandCount() == 0 {
		p.Winner = seat
		r.finish()
		return accept(true)
	}
	return accept(false)
}

// finish 结算并结束本局，只能在确定地主之后调用
func (r *Round) finish() {
	if r.LandlordSeat == NoSeat {
		panic("doudizhu: finishing a round without a landlord")
	}

	score := Settle(ScoreInput{
		Mode:                r.Config.ScoringMode,
		PerDefenderDoubling: r.Config.PerDefenderDoubling,
		Winner:              r.Playing.Winner,
		Landlord:            r.LandlordSeat,
		CallScore:           r.CallScore,
		BombCount:           r.Playing.BombCount,
		RocketCount:         r.Playing.RocketCount,
		Spring:              r.isSpring(),
		Doubled:             r.farmerDoubles(),
		Redoubled:           r.Doubling.Doubled[r.LandlordSeat],
	})
	r.Score = &score
	r.Phase = PhaseComplete
}

func (r *Round) farmerDoubles() [SeatCount]bool {
	doubled := r.Doubling.Doubled
	doubled[r.LandlordSeat] = false
	return doubled
}

// isSpring 春天：地主赢且农民一手没出；反春：农民赢且地主只出了第一手
func (r *Round) isSpring() bool {
	p := &r.Playing
	landlord := r.LandlordSeat

	if p.Winner == landlord {
		for seat := Seat(0); seat < SeatCount; seat++ {
			if seat != landlord && p.PlayCounts[seat] > 0 {
				return false
			}
		}
		return true
	}

	if p.PlayCounts[landlord] != 1 || len(p.History) == 0 {
		return false
	}
	first := p.History[0]
	return first.Seat == landlord && !first.Combo.IsPass()
}
