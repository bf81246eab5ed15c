package doudizhu

// Suit 牌的花色
type Suit uint8

const (
	SuitNone       Suit = iota
	SuitSpade           // 黑桃 S
	SuitHeart           // 红桃 H
	SuitDiamond         // 方块 D
	SuitClub            // 梅花 C
	SuitJokerBlack      // 小王 JB
	SuitJokerRed        // 大王 JR
)

var suitNames = [...]string{"", "S", "H", "D", "C", "JB", "JR"}

func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return "?"
}

// Rank 牌的点数，数值即比较用的大小（王单独由花色区分大小）
type Rank uint8

const (
	RankNone  Rank = 0
	Rank3     Rank = 3
	Rank4     Rank = 4
	Rank5     Rank = 5
	Rank6     Rank = 6
	Rank7     Rank = 7
	Rank8     Rank = 8
	Rank9     Rank = 9
	Rank10    Rank = 10
	RankJ     Rank = 11
	RankQ     Rank = 12
	RankK     Rank = 13
	RankA     Rank = 14
	Rank2     Rank = 15
	RankJoker Rank = 16
)

// 牌值边界
const (
	ValueSmallJoker = 16
	ValueBigJoker   = 17

	// 顺子、连对、飞机的主体只能由小于 2 的牌组成
	sequenceCeiling = 15
)

var rankNames = map[Rank]string{
	Rank3: "3", Rank4: "4", Rank5: "5", Rank6: "6", Rank7: "7", Rank8: "8", Rank9: "9",
	Rank10: "10", RankJ: "J", RankQ: "Q", RankK: "K", RankA: "A", Rank2: "2", RankJoker: "Joker",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// ComboType 牌型
type ComboType uint8

const (
	ComboPass               ComboType = iota // 不出
	ComboSingle                              // 单张
	ComboPair                                // 对子
	ComboTriple                              // 三张
	ComboTripleWithSingle                    // 三带一
	ComboTripleWithPair                      // 三带二
	ComboSequence                            // 顺子（>=5张）
	ComboSequenceOfPairs                     // 连对（>=3对）
	ComboPlane                               // 飞机（>=2个连续三张）
	ComboPlaneWithSingles                    // 飞机带单
	ComboPlaneWithPairs                      // 飞机带对
	ComboFourWithTwoSingles                  // 四带二
	ComboFourWithTwoPairs                    // 四带两对
	ComboBomb                                // 炸弹
	ComboRocket                              // 王炸
)

var comboNames = [...]string{
	"PASS", "SINGLE", "PAIR", "TRIPLE", "TRIPLE_WITH_SINGLE", "TRIPLE_WITH_PAIR",
	"SEQUENCE", "SEQUENCE_OF_PAIRS", "PLANE", "PLANE_WITH_SINGLES", "PLANE_WITH_PAIRS",
	"FOUR_WITH_TWO_SINGLES", "FOUR_WITH_TWO_PAIRS", "BOMB", "ROCKET",
}

func (t ComboType) String() string {
	if int(t) < len(comboNames) {
		return comboNames[t]
	}
	return "UNKNOWN"
}

// HasLength 顺子类牌型需要 Length 参与比较
func (t ComboType) HasLength() bool {
	switch t {
	case ComboSequence, ComboSequenceOfPairs, ComboPlane, ComboPlaneWithSingles, ComboPlaneWithPairs:
		return true
	}
	return false
}

// Phase 一局的阶段
type Phase uint8

const (
	PhaseBidding  Phase = iota // 叫分
	PhaseDoubling              // 加倍
	PhasePlay                  // 出牌
	PhaseComplete              // 结束
)

var phaseNames = [...]string{"BIDDING", "DOUBLING", "PLAY", "COMPLETE"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "UNKNOWN"
}

// Role 玩家身份
type Role uint8

const (
	RoleNone     Role = iota
	RoleLandlord      // 地主
	RoleFarmer        // 农民
)

func (r Role) String() string {
	switch r {
	case RoleLandlord:
		return "LANDLORD"
	case RoleFarmer:
		return "FARMER"
	}
	return "NONE"
}

// Seat 座位号 0,1,2
type Seat int8

const (
	NoSeat    Seat = -1
	SeatCount      = 3
)

// Valid 是否为合法座位
func (s Seat) Valid() bool {
	return s >= 0 && s < SeatCount
}

// Next 逆时针下一个座位，固定轮转
func (s Seat) Next() Seat {
	return (s + 1) % SeatCount
}

const (
	HandSize    = 17 // 每人发牌数
	BottomSize  = 3  // 底牌数
	PackSize    = 54 // 一副牌
	MaxBid      = 3
	passesToWin = 2 // 连续两家不要，出牌者重新获得出牌权
)
