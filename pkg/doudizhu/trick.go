package doudizhu

// TrickState 一轮出牌的状态
// Holder 为当前最大牌的出牌者，NoSeat 表示本轮还没有人出牌（首出）
type TrickState struct {
	Holder  Seat   `json:"holder"`
	Combo   *Combo `json:"combo,omitempty"`
	Passes  int    `json:"passes"`
	Current Seat   `json:"current"`
}

// NewTrick 由 leader 首出的新一轮
func NewTrick(leader Seat) TrickState {
	return TrickState{
		Holder:  NoSeat,
		Current: leader,
	}
}

// IsLeading 当前是否为首出
func (t *TrickState) IsLeading() bool {
	return t.Holder == NoSeat
}

// Standing 当前需要压过的牌型，首出时为 nil
func (t *TrickState) Standing() *Combo {
	if t.IsLeading() {
		return nil
	}
	return t.Combo
}

// Advance 推进一轮的状态
// combo 必须已经通过牌型和大小校验；首出时不能 PASS
// 返回本次动作是否让本轮结束（连续两家不要）
func (t *TrickState) Advance(seat Seat, combo *Combo) (closed bool, reason Reason) {
	if combo.IsPass() {
		if t.IsLeading() {
			return false, ReasonCannotPassWhenLeading
		}
		t.Passes++
		if t.Passes >= passesToWin {
			// 出牌者重新获得出牌权
			t.Current = t.Holder
			t.Holder = NoSeat
			t.Combo = nil
			t.Passes = 0
			return true, ReasonNone
		}
		t.Current = seat.Next()
		return false, ReasonNone
	}

	t.Holder = seat
	t.Combo = combo
	t.Passes = 0
	t.Current = seat.Next()
	return false, ReasonNone
}
