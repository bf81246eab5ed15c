package doudizhu

// handIndex 按牌值分组的手牌
type handIndex struct {
	byValue map[int]Cards
	values  []int // 升序
}

func indexHand(hand Cards) handIndex {
	idx := handIndex{byValue: make(map[int]Cards)}
	for _, c := range hand.Sorted() {
		idx.byValue[c.Value()] = append(idx.byValue[c.Value()], c)
	}
	idx.values = sortedValues(hand.ValueCounts())
	return idx
}

func (h handIndex) count(v int) int {
	return len(h.byValue[v])
}

// take 取出某个牌值的前 n 张
func (h handIndex) take(v, n int) Cards {
	return h.byValue[v][:n]
}

// CanBeat 手牌中是否有能压过 prev 的出法（按 Hint 的搜索范围）
func CanBeat(hand Cards, prev *Combo) bool {
	return Hint(hand, prev) != nil
}

// Hint 给出能压过 prev 的最小出法，prev 为 nil 时给出首出建议
// 先找同牌型且尽量不拆炸弹，找不到再用炸弹和王炸；没有可出的牌返回 nil
func Hint(hand Cards, prev *Combo) Cards {
	if len(hand) == 0 {
		return nil
	}
	idx := indexHand(hand)

	if prev.IsPass() {
		return hintLead(hand, idx)
	}

	for _, avoidBombs := range []bool{true, false} {
		for _, candidate := range sameTypeCandidates(idx, prev, avoidBombs) {
			if combo := Classify(candidate); combo != nil && Beats(combo, prev) {
				return candidate
			}
		}
	}

	// 炸弹
	for _, v := range idx.values {
		if idx.count(v) == 4 {
			candidate := idx.take(v, 4)
			if Beats(Classify(candidate), prev) {
				return candidate
			}
		}
	}
	// 王炸
	if idx.count(ValueSmallJoker) > 0 && idx.count(ValueBigJoker) > 0 && prev.Type != ComboRocket {
		return Cards{idx.take(ValueSmallJoker, 1)[0], idx.take(ValueBigJoker, 1)[0]}
	}
	return nil
}

// hintLead 能一手出完就全出，否则出最小的一组（最多三张）
func hintLead(hand Cards, idx handIndex) Cards {
	if combo := Classify(hand); combo != nil {
		return hand.Sorted()
	}
	v := idx.values[0]
	return idx.take(v, min(idx.count(v), 3))
}

// sameTypeCandidates 按从小到大的顺序列出与 prev 同牌型的候选
func sameTypeCandidates(idx handIndex, prev *Combo, avoidBombs bool) []Cards {
	usable := func(v, need int) bool {
		c := idx.count(v)
		return c >= need && !(avoidBombs && c == 4)
	}

	var out []Cards
	switch prev.Type {
	case ComboSingle, ComboPair, ComboTriple:
		need := map[ComboType]int{ComboSingle: 1, ComboPair: 2, ComboTriple: 3}[prev.Type]
		for _, v := range idx.values {
			if v > prev.MainRank && usable(v, need) {
				out = append(out, idx.take(v, need))
			}
		}
	case ComboTripleWithSingle, ComboTripleWithPair:
		wing := 1
		if prev.Type == ComboTripleWithPair {
			wing = 2
		}
		for _, v := range idx.values {
			if v <= prev.MainRank || !usable(v, 3) {
				continue
			}
			for _, w := range idx.values {
				if w != v && usable(w, wing) {
					out = append(out, concat(idx.take(v, 3), idx.take(w, wing)))
					break
				}
			}
		}
	case ComboSequence, ComboSequenceOfPairs, ComboPlane:
		width := map[ComboType]int{ComboSequence: 1, ComboSequenceOfPairs: 2, ComboPlane: 3}[prev.Type]
		for top := prev.MainRank + 1; top < sequenceCeiling; top++ {
			if window, ok := takeRun(idx, top, prev.Length, width, usable); ok {
				out = append(out, window)
			}
		}
	case ComboPlaneWithSingles, ComboPlaneWithPairs:
		wing := 1
		if prev.Type == ComboPlaneWithPairs {
			wing = 2
		}
		for top := prev.MainRank + 1; top < sequenceCeiling; top++ {
			body, ok := takeRun(idx, top, prev.Length, 3, usable)
			if !ok {
				continue
			}
			if wings, ok := takeWings(idx, top-prev.Length+1, top, prev.Length, wing, usable); ok {
				out = append(out, concat(body, wings))
			}
		}
	}
	return out
}

// takeRun 取以 top 为最大牌、长度为 length、每个点数 width 张的连续牌
func takeRun(idx handIndex, top, length, width int, usable func(v, need int) bool) (Cards, bool) {
	low := top - length + 1
	if low < int(Rank3) {
		return nil, false
	}
	var run Cards
	for v := low; v <= top; v++ {
		if !usable(v, width) {
			return nil, false
		}
		run = append(run, idx.take(v, width)...)
	}
	return run, true
}

// takeWings 在机身 [low, high] 之外从小到大取 k 组翅膀
func takeWings(idx handIndex, low, high, k, wing int, usable func(v, need int) bool) (Cards, bool) {
	var wings Cards
	for _, v := range idx.values {
		if k == 0 {
			break
		}
		if v >= low && v <= high {
			continue
		}
		if wing == 1 {
			for _, c := range idx.byValue[v] {
				if k == 0 || !usable(v, 1) {
					break
				}
				wings = append(wings, c)
				k--
			}
			continue
		}
		if usable(v, 2) {
			wings = append(wings, idx.take(v, 2)...)
			k--
		}
	}
	return wings, k == 0
}

func concat(parts ...Cards) Cards {
	var out Cards
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
