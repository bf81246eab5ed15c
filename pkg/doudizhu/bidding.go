package doudizhu

// Bid 一次叫分，0 表示不叫
type Bid struct {
	Seat  Seat `json:"seat"`
	Value int  `json:"value"`
}

// BiddingState 叫分阶段的状态
type BiddingState struct {
	StartingSeat      Seat  `json:"startingSeat"`
	CurrentSeat       Seat  `json:"currentSeat"`
	HighestBid        int   `json:"highestBid"`
	HighestBidder     Seat  `json:"highestBidder"`
	BidsTaken         int   `json:"bidsTaken"`
	ConsecutivePasses int   `json:"consecutivePasses"`
	History           []Bid `json:"history"`
	Finished          bool  `json:"finished"`
	RedealRequired    bool  `json:"redealRequired"`
}

func newBiddingState(start Seat) BiddingState {
	return BiddingState{
		StartingSeat:  start,
		CurrentSeat:   start,
		HighestBidder: NoSeat,
	}
}

// check 校验叫分是否合法，不修改状态
func (b *BiddingState) check(seat Seat, bid int) Reason {
	if seat != b.CurrentSeat {
		return ReasonNotYourTurn
	}
	if bid < 0 || bid > MaxBid {
		return ReasonInvalidBid
	}
	if bid > 0 && bid <= b.HighestBid {
		return ReasonBidTooLow
	}
	return ReasonNone
}

// record 记录一次已经校验过的叫分
func (b *BiddingState) record(seat Seat, bid int) {
	b.History = append(b.History, Bid{Seat: seat, Value: bid})
	b.BidsTaken++
	if bid > 0 {
		b.HighestBid = bid
		b.HighestBidder = seat
		b.ConsecutivePasses = 0
	} else {
		b.ConsecutivePasses++
	}
}

// hasLeader 叫到 3 分，或者至少叫过一轮且有人叫分后连续两家不叫
func (b *BiddingState) hasLeader() bool {
	if b.HighestBid == MaxBid {
		return true
	}
	return b.BidsTaken >= SeatCount && b.HighestBidder != NoSeat && b.ConsecutivePasses >= passesToWin
}

// allPassed 一轮下来没有人叫分，需要重新发牌
func (b *BiddingState) allPassed() bool {
	return b.BidsTaken >= SeatCount && b.HighestBidder == NoSeat
}
