package doudizhu

import (
	"fmt"
	"slices"
)

// Combo 一手合法的出牌
// MainRank 用于比较大小（顺子、连对、飞机取最大的牌），PASS 时为 0
// Length 只有顺子、连对、飞机类牌型才有值，用于禁止不同长度之间的比较
type Combo struct {
	Type     ComboType `json:"type"`
	MainRank int       `json:"mainRank,omitempty"`
	Length   int       `json:"length,omitempty"`
	Cards    Cards     `json:"cards,omitempty"`
}

// IsPass 是否为不出
func (c *Combo) IsPass() bool {
	return c == nil || c.Type == ComboPass
}

func (c *Combo) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.Type.HasLength() {
		return fmt.Sprintf("%s(%d x%d)", c.Type, c.MainRank, c.Length)
	}
	if c.Type == ComboPass {
		return c.Type.String()
	}
	return fmt.Sprintf("%s(%d)", c.Type, c.MainRank)
}

// Classify 识别牌型
// 空牌为 PASS；不合法（包括重复 Id）返回 nil
func Classify(cards Cards) *Combo {
	if len(cards) == 0 {
		return &Combo{Type: ComboPass}
	}
	if cards.HasDuplicateId() {
		return nil
	}

	sorted := cards.Sorted()
	counts := sorted.ValueCounts()
	values := sortedValues(counts)
	n := len(sorted)

	combo := func(t ComboType, main, length int) *Combo {
		return &Combo{Type: t, MainRank: main, Length: length, Cards: sorted}
	}

	// 王炸
	if n == 2 && counts[ValueSmallJoker] == 1 && counts[ValueBigJoker] == 1 {
		return combo(ComboRocket, ValueBigJoker, 0)
	}

	// 单一点数或三带的固定张数牌型
	switch n {
	case 1:
		return combo(ComboSingle, values[0], 0)
	case 2:
		if len(values) == 1 {
			return combo(ComboPair, values[0], 0)
		}
	case 3:
		if len(values) == 1 {
			return combo(ComboTriple, values[0], 0)
		}
	case 4:
		if len(values) == 1 {
			return combo(ComboBomb, values[0], 0)
		}
		if v, ok := valueWithCount(counts, 3); ok && len(values) == 2 {
			return combo(ComboTripleWithSingle, v, 0)
		}
	case 5:
		if v, ok := valueWithCount(counts, 3); ok && len(values) == 2 {
			if _, ok := valueWithCount(counts, 2); ok {
				return combo(ComboTripleWithPair, v, 0)
			}
		}
	}

	top := values[len(values)-1]

	// 顺子
	if n >= 5 && len(values) == n && top < sequenceCeiling && consecutive(values) {
		return combo(ComboSequence, top, n)
	}

	// 连对
	if n >= 6 && n%2 == 0 && allCountsEqual(counts, 2) && top < sequenceCeiling && consecutive(values) {
		return combo(ComboSequenceOfPairs, top, n/2)
	}

	// 飞机不带
	if n >= 6 && n%3 == 0 && len(values) >= 2 && allCountsEqual(counts, 3) && top < sequenceCeiling && consecutive(values) {
		return combo(ComboPlane, top, n/3)
	}

	// 飞机带翅膀
	if t, main, length, ok := checkPlaneWithWings(counts, values, n); ok {
		return combo(t, main, length)
	}

	// 四带二
	if t, main, ok := checkFourWithTwo(counts, values, n); ok {
		return combo(t, main, 0)
	}

	return nil
}

// checkPlaneWithWings 飞机带单或带对
// 对每种翅膀大小 a，飞机长度 k = n/(3+a)，在可做机身（>=3张且小于2）的点数中枚举
// 连续的 k 个点数作为窗口，每个点数取三张，剩余的牌必须恰好分成 k 组每组 a 张
// 有多个合法窗口时取最大的那个
func checkPlaneWithWings(counts map[int]int, values []int, n int) (ComboType, int, int, bool) {
	for _, wing := range []int{1, 2} {
		if n%(3+wing) != 0 {
			continue
		}
		k := n / (3 + wing)
		if k < 2 {
			continue
		}

		var bodies []int
		for _, v := range values {
			if counts[v] >= 3 && v < sequenceCeiling {
				bodies = append(bodies, v)
			}
		}

		best := 0
		for start := 0; start+k <= len(bodies); start++ {
			window := bodies[start : start+k]
			if !consecutive(window) {
				continue
			}
			if wingsFit(counts, window, wing) {
				// bodies 升序，后面的窗口一定更大
				best = window[k-1]
			}
		}
		if best == 0 {
			continue
		}

		if wing == 1 {
			return ComboPlaneWithSingles, best, k, true
		}
		return ComboPlaneWithPairs, best, k, true
	}
	return ComboPass, 0, 0, false
}

// wingsFit 去掉机身后剩余的牌是否能组成翅膀
// 张数由 n = k*(3+a) 保证，带单时任意剩余牌都可以，带对时每个点数剩余张数必须为偶数
func wingsFit(counts map[int]int, window []int, wing int) bool {
	if wing == 1 {
		return true
	}
	for v, c := range counts {
		if slices.Contains(window, v) {
			c -= 3
		}
		if c%2 != 0 {
			return false
		}
	}
	return true
}

// checkFourWithTwo 四带二：四张 + 两个单张（6张）或两个对子（8张）
func checkFourWithTwo(counts map[int]int, values []int, n int) (ComboType, int, bool) {
	if (n != 6 && n != 8) || len(values) != 3 {
		return ComboPass, 0, false
	}
	quad, ok := valueWithCount(counts, 4)
	if !ok {
		return ComboPass, 0, false
	}

	attach := 1
	t := ComboFourWithTwoSingles
	if n == 8 {
		attach = 2
		t = ComboFourWithTwoPairs
	}
	for _, v := range values {
		if v != quad && counts[v] != attach {
			return ComboPass, 0, false
		}
	}
	return t, quad, true
}

func sortedValues(counts map[int]int) []int {
	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// valueWithCount 找到张数恰好为 count 的点数（只取唯一的那个）
func valueWithCount(counts map[int]int, count int) (int, bool) {
	found, value := 0, 0
	for v, c := range counts {
		if c == count {
			found++
			value = v
		}
	}
	return value, found == 1
}

func allCountsEqual(counts map[int]int, count int) bool {
	for _, c := range counts {
		if c != count {
			return false
		}
	}
	return true
}

// consecutive 升序的点数是否连续
func consecutive(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}
