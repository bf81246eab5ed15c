package doudizhu

import (
	"testing"
)

func TestBeats(t *testing.T) {
	tests := []struct {
		name string
		curr Cards
		prev Cards
		want bool
	}{
		{"单张大压小", mk(9), mk(8), true},
		{"单张相同不能压", mk(8), mk(8), false},
		{"大王压小王", mk(bj), mk(sj), true},
		{"2压A", mk(15), mk(14), true},
		{"对子不能压单张", mk(9, 9), mk(3), false},
		{"三带一比三张", mk(9, 9, 9, 3), mk(8, 8, 8, 4), true},
		{"三带一不看带牌", mk(8, 8, 8, 3), mk(8, 8, 8, 15), false},
		{"顺子同长度", mk(4, 5, 6, 7, 8), mk(3, 4, 5, 6, 7), true},
		{"顺子长度不同", mk(5, 6, 7, 8, 9, 10), mk(3, 4, 5, 6, 7), false},
		{"连对长度不同", mk(5, 5, 6, 6, 7, 7, 8, 8), mk(3, 3, 4, 4, 5, 5), false},
		{"飞机带单同长度", mk(9, 9, 9, 10, 10, 10, 3, 4), mk(7, 7, 7, 8, 8, 8, 5, 6), true},
		{"飞机带单不能压飞机带对", mk(9, 9, 9, 10, 10, 10, 3, 4), mk(7, 7, 7, 8, 8, 8, 5, 5, 6, 6), false},
		{"炸弹压顺子", mk(3, 3, 3, 3), mk(10, 11, 12, 13, 14), true},
		{"炸弹压四带二", mk(3, 3, 3, 3), mk(9, 9, 9, 9, 4, 5), true},
		{"大炸弹压小炸弹", mk(5, 5, 5, 5), mk(4, 4, 4, 4), true},
		{"小炸弹不能压大炸弹", mk(4, 4, 4, 4), mk(5, 5, 5, 5), false},
		{"普通牌不能压炸弹", mk(15), mk(3, 3, 3, 3), false},
		{"王炸压炸弹", mk(sj, bj), mk(15, 15, 15, 15), true},
		{"炸弹不能压王炸", mk(15, 15, 15, 15), mk(sj, bj), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curr, prev := Classify(tt.curr), Classify(tt.prev)
			if curr == nil || prev == nil {
				t.Fatalf("test cards must classify: %v %v", curr, prev)
			}
			if got := Beats(curr, prev); got != tt.want {
				t.Errorf("Beats(%s, %s) = %v, want %v", curr, prev, got, tt.want)
			}
		})
	}
}

// 首出时任何非 PASS 牌型都可以
func TestBeats_Leading(t *testing.T) {
	samples := []Cards{
		{}, mk(3), mk(4, 4), mk(5, 5, 5), mk(6, 6, 6, 6), mk(sj, bj),
		mk(3, 4, 5, 6, 7), mk(7, 7, 7, 8, 8, 8, 3, 4), mk(9, 9, 9, 9, 3, 5),
	}
	pass := &Combo{Type: ComboPass}
	for _, cards := range samples {
		combo := Classify(cards)
		want := combo.Type != ComboPass
		if got := Beats(combo, nil); got != want {
			t.Errorf("Beats(%s, nil) = %v, want %v", combo, got, want)
		}
		if got := Beats(combo, pass); got != want {
			t.Errorf("Beats(%s, PASS) = %v, want %v", combo, got, want)
		}
	}
}

// 炸弹压所有普通牌型，王炸压所有牌型
func TestBeats_BombAndRocketDominance(t *testing.T) {
	bomb := Classify(mk(3, 3, 3, 3))
	rocket := Classify(mk(sj, bj))
	others := []Cards{
		mk(15), mk(15, 15), mk(15, 15, 15), mk(14, 14, 14, 15),
		mk(10, 11, 12, 13, 14), mk(12, 12, 13, 13, 14, 14),
		mk(13, 13, 13, 14, 14, 14), mk(15, 15, 15, 15, 14, 13),
	}
	for _, cards := range others {
		prev := Classify(cards)
		if !Beats(bomb, prev) {
			t.Errorf("bomb should beat %s", prev)
		}
		if !Beats(rocket, prev) {
			t.Errorf("rocket should beat %s", prev)
		}
		if Beats(prev, rocket) {
			t.Errorf("%s should not beat rocket", prev)
		}
	}
	if !Beats(rocket, bomb) || Beats(rocket, rocket) {
		t.Error("rocket ordering is wrong")
	}
}
