package doudizhu

// Beats 判断 curr 能否压过 prev
// prev 为 nil 或 PASS 表示首出，任何非 PASS 牌型都可以
// 王炸最大；炸弹压所有非炸弹非王炸的牌型，炸弹之间比点数；
// 其余牌型必须类型相同，顺子类还要求长度相同，然后比较 MainRank
func Beats(curr, prev *Combo) bool {
	if curr.IsPass() {
		return false
	}
	if prev.IsPass() {
		return true
	}

	if curr.Type == ComboRocket {
		return prev.Type != ComboRocket
	}
	if prev.Type == ComboRocket {
		return false
	}

	if curr.Type == ComboBomb {
		if prev.Type == ComboBomb {
			return curr.MainRank > prev.MainRank
		}
		return true
	}
	if prev.Type == ComboBomb {
		return false
	}

	if curr.Type != prev.Type {
		return false
	}
	if prev.Length != 0 && curr.Length != prev.Length {
		return false
	}
	return curr.MainRank > prev.MainRank
}
