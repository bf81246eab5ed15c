package table

import (
	"github.com/goccy/go-json"

	"github.com/play/doudizhu/pkg/doudizhu"
)

// EventKind 事件类型
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventBid      EventKind = "bid"
	EventDouble   EventKind = "double"
	EventPlay     EventKind = "play"
	EventComplete EventKind = "complete"
)

// AllRoundsTopic 所有局的事件都会发到这里
const AllRoundsTopic = "rounds"

// RoundTopic 单局的事件 topic
func RoundTopic(id string) string {
	return "round:" + id
}

// Event 动作被接受后发布的事件，被拒绝的动作不发布
type Event struct {
	RoundId string          `json:"roundId"`
	Kind    EventKind       `json:"kind"`
	Seat    doudizhu.Seat   `json:"seat"`
	Version int64           `json:"version"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createdPayload struct {
	StartingSeat doudizhu.Seat           `json:"startingSeat"`
	HandSizes    [doudizhu.SeatCount]int `json:"handSizes"`
}

type bidPayload struct {
	Value         int           `json:"value"`
	HighestBid    int           `json:"highestBid"`
	HighestBidder doudizhu.Seat `json:"highestBidder"`
	Landlord      doudizhu.Seat `json:"landlord"`
}

type doublePayload struct {
	Doubled bool           `json:"doubled"`
	Phase   doudizhu.Phase `json:"phase"`
}

type playPayload struct {
	Combo     *doudizhu.Combo         `json:"combo"`
	HandSizes [doudizhu.SeatCount]int `json:"handSizes"`
	Next      doudizhu.Seat           `json:"next"`
}

type completePayload struct {
	Redeal bool                     `json:"redeal"`
	Score  *doudizhu.ScoreBreakdown `json:"score,omitempty"`
}

func newEvent(r *doudizhu.Round, kind EventKind, seat doudizhu.Seat, version int64, payload any) Event {
	ev := Event{RoundId: r.Id, Kind: kind, Seat: seat, Version: version}
	if payload != nil {
		// 负载都是本包内的简单结构体，编码不会失败
		ev.Payload, _ = json.Marshal(payload)
	}
	return ev
}
