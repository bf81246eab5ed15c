package doudizhu

// Reason 动作被拒绝的原因，所有规则违规都以 Reason 返回而不是 panic
type Reason string

const (
	ReasonNone                      Reason = ""
	ReasonBiddingClosed             Reason = "bidding-closed"
	ReasonNotYourTurn               Reason = "not-your-turn"
	ReasonInvalidBid                Reason = "invalid-bid"
	ReasonBidTooLow                 Reason = "bid-too-low"
	ReasonDoublingClosed            Reason = "doubling-closed"
	ReasonRoundComplete             Reason = "round-complete"
	ReasonInvalidCombo              Reason = "invalid-combo"
	ReasonCardsNotInHand            Reason = "cards-not-in-hand"
	ReasonDoesNotBeat               Reason = "does-not-beat"
	ReasonPassNotAllowedWhenLeading Reason = "pass-not-allowed-when-leading"
	ReasonCannotPassWhenLeading     Reason = "cannot-pass-when-leading"
	ReasonMissingPlayer             Reason = "missing-player"
)

// Error 使 Reason 可以直接作为 error 传递给上层
func (r Reason) Error() string {
	return string(r)
}

// Result 动作的处理结果
type Result struct {
	Ok       bool   `json:"ok"`
	Reason   Reason `json:"reason,omitempty"`
	Finished bool   `json:"finished,omitempty"` // 当前阶段（叫分、加倍）或整局是否结束
}

func reject(reason Reason) Result {
	return Result{Reason: reason}
}

func accept(finished bool) Result {
	return Result{Ok: true, Finished: finished}
}

// Err 成功时返回 nil，失败时返回 Reason
func (r Result) Err() error {
	if r.Ok {
		return nil
	}
	return r.Reason
}
