package doudizhu

// Player 玩家信息
type Player struct {
	Seat Seat  `json:"seat"`
	Role Role  `json:"role"`
	Hand Cards `json:"hand"` // 当前手里的牌
}

// NewPlayer 创建一个新玩家
func NewPlayer(seat Seat) Player {
	return Player{Seat: seat}
}

// SetHand 设置玩家手牌
func (p *Player) SetHand(cards Cards) {
	p.Hand = cards
}

// HandCount 返回手牌数量
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// Holds 手牌中是否有这些牌（按 Id 计数，点数和花色也必须一致）
func (p *Player) Holds(cards Cards) bool {
	_, ok := p.without(cards)
	return ok
}

// Remove 从手牌中移除这些牌
// 返回是否成功，失败时手牌不变
func (p *Player) Remove(cards Cards) bool {
	remaining, ok := p.without(cards)
	if !ok {
		return false
	}
	p.Hand = remaining
	return true
}

// Take 把牌加入手牌（地主拿底牌）
func (p *Player) Take(cards Cards) {
	p.Hand = append(p.Hand, cards...)
}

func (p *Player) without(cards Cards) (Cards, bool) {
	handCopy := make(Cards, len(p.Hand))
	copy(handCopy, p.Hand)

	for _, card := range cards {
		i := handCopy.IndexOf(card.Id)
		if i < 0 || !handCopy[i].SameFace(card) {
			return nil, false
		}
		handCopy = append(handCopy[:i], handCopy[i+1:]...)
	}
	return handCopy, true
}
