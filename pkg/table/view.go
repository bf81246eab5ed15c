package table

import (
	"github.com/play/doudizhu/pkg/doudizhu"
)

// SeatView 某个座位能看到的信息
type SeatView struct {
	RoundId     string                   `json:"roundId"`
	Version     int64                    `json:"version"`
	Seat        doudizhu.Seat            `json:"seat"`
	Phase       doudizhu.Phase           `json:"phase"`
	Current     doudizhu.Seat            `json:"current"`
	Landlord    doudizhu.Seat            `json:"landlord"`
	CallScore   int                      `json:"callScore"`
	Hand        doudizhu.Cards           `json:"hand"`
	HandSizes   [doudizhu.SeatCount]int  `json:"handSizes"`
	BottomCards doudizhu.Cards           `json:"bottomCards,omitempty"`
	Standing    *doudizhu.Combo          `json:"standing,omitempty"`
	Score       *doudizhu.ScoreBreakdown `json:"score,omitempty"`
}

func newSeatView(r *doudizhu.Round, seat doudizhu.Seat, version int64) *SeatView {
	v := &SeatView{
		RoundId:   r.Id,
		Version:   version,
		Seat:      seat,
		Phase:     r.Phase,
		Current:   r.CurrentSeat(),
		Landlord:  r.LandlordSeat,
		CallScore: r.CallScore,
		Hand:      r.Hand(seat).Sorted(),
		HandSizes: r.HandSizes(),
		Score:     r.Score,
	}
	// 底牌在确定地主后对地主可见，翻开底牌时所有人可见
	if r.LandlordSeat != doudizhu.NoSeat && (seat == r.LandlordSeat || r.Config.RevealBottom) {
		v.BottomCards = r.BottomCards
	}
	if r.Phase == doudizhu.PhasePlay {
		v.Standing = r.Standing()
	}
	return v
}
