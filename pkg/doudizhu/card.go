package doudizhu

import (
	"slices"
	"strings"
)

// Card 代表一张扑克牌，Id 在整个牌靴中唯一
type Card struct {
	Id     int  `json:"id"`
	Rank   Rank `json:"rank"`
	Suit   Suit `json:"suit"`
	FaceUp bool `json:"faceUp,omitempty"`
}

// NewCard
func NewCard(id int, rank Rank, suit Suit) Card {
	return Card{
		Id:   id,
		Rank: rank,
		Suit: suit,
	}
}

// Value 返回牌的大小 3..17，小王 16，大王 17
func (c Card) Value() int {
	if c.Rank == RankJoker {
		if c.Suit == SuitJokerRed {
			return ValueBigJoker
		}
		return ValueSmallJoker
	}
	return int(c.Rank)
}

// IsJoker 是否为王
func (c Card) IsJoker() bool {
	return c.Rank == RankJoker
}

// SameFace 点数和花色都相同（不比较 Id）
func (c Card) SameFace(o Card) bool {
	return c.Rank == o.Rank && c.Suit == o.Suit
}

func (c Card) String() string {
	if c.IsJoker() {
		return c.Suit.String()
	}
	return c.Suit.String() + c.Rank.String()
}

type Cards []Card

// Sorted 返回按牌值升序（相同按 Id）排列的副本
func (cs Cards) Sorted() Cards {
	sorted := slices.Clone(cs)
	slices.SortFunc(sorted, func(a, b Card) int {
		if a.Value() != b.Value() {
			return a.Value() - b.Value()
		}
		return a.Id - b.Id
	})
	return sorted
}

// Ids 返回所有牌的 Id
func (cs Cards) Ids() []int {
	ids := make([]int, len(cs))
	for i, c := range cs {
		ids[i] = c.Id
	}
	return ids
}

// HasDuplicateId 是否有两张牌 Id 相同
func (cs Cards) HasDuplicateId() bool {
	seen := make(map[int]struct{}, len(cs))
	for _, c := range cs {
		if _, ok := seen[c.Id]; ok {
			return true
		}
		seen[c.Id] = struct{}{}
	}
	return false
}

// ValueCounts 统计每个牌值的张数
func (cs Cards) ValueCounts() map[int]int {
	counts := make(map[int]int, len(cs))
	for _, c := range cs {
		counts[c.Value()]++
	}
	return counts
}

// IndexOf 按 Id 查找
func (cs Cards) IndexOf(id int) int {
	for i, c := range cs {
		if c.Id == id {
			return i
		}
	}
	return -1
}

// WithFaceUp 返回设置了朝向的副本
func (cs Cards) WithFaceUp(faceUp bool) Cards {
	out := slices.Clone(cs)
	for i := range out {
		out[i].FaceUp = faceUp
	}
	return out
}

func (cs Cards) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// NewDeck 生成指定副数的扑克牌
// packs 表示几副牌，每副 52 张普通牌 + 小王 + 大王 = 54 张，Id 从 0 开始连续编号
func NewDeck(packs int, faceUp bool) Cards {
	if packs <= 0 {
		return nil
	}

	cards := make(Cards, 0, packs*PackSize)
	suits := []Suit{SuitSpade, SuitHeart, SuitDiamond, SuitClub}

	for range packs {
		for _, suit := range suits {
			for rank := Rank3; rank <= Rank2; rank++ {
				cards = append(cards, Card{Id: len(cards), Rank: rank, Suit: suit, FaceUp: faceUp})
			}
		}
		cards = append(cards, Card{Id: len(cards), Rank: RankJoker, Suit: SuitJokerBlack, FaceUp: faceUp})
		cards = append(cards, Card{Id: len(cards), Rank: RankJoker, Suit: SuitJokerRed, FaceUp: faceUp})
	}
	return cards
}
