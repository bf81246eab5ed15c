package doudizhu

// DoublingState 加倍阶段的状态
// 顺序固定为地主下家、地主上家，最后地主决定是否反加倍
type DoublingState struct {
	Order     []Seat          `json:"order"`
	Index     int             `json:"index"`
	Responded [SeatCount]bool `json:"responded"`
	Doubled   [SeatCount]bool `json:"doubled"`
	Finished  bool            `json:"finished"`
}

func newDoublingState(landlord Seat, enabled bool) DoublingState {
	if !enabled {
		return DoublingState{Finished: true}
	}
	return DoublingState{
		Order: []Seat{landlord.Next(), landlord.Next().Next(), landlord},
	}
}

// CurrentSeat 当前应该表态的座位
func (d *DoublingState) CurrentSeat() Seat {
	if d.Index >= len(d.Order) {
		return NoSeat
	}
	return d.Order[d.Index]
}

// record 记录一次表态，返回加倍阶段是否结束
func (d *DoublingState) record(seat Seat, doubled bool) bool {
	d.Responded[seat] = true
	d.Doubled[seat] = doubled
	d.Index++
	d.Finished = d.Index >= len(d.Order)
	return d.Finished
}
