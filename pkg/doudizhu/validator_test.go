package doudizhu

import (
	"testing"
)

func TestPlayValidator(t *testing.T) {
	v := NewPlayValidator()
	prev := Classify(mk(3, 4, 5, 6, 7))

	tests := []struct {
		name     string
		cards    Cards
		prev     *Combo
		wantOk   bool
		wantType ComboType
		reason   Reason
	}{
		{"首出不能不出", Cards{}, nil, false, ComboPass, ReasonPassNotAllowedWhenLeading},
		{"首出不合法", mk(3, 5), nil, false, ComboPass, ReasonInvalidCombo},
		{"首出顺子", mk(3, 4, 5, 6, 7), nil, true, ComboSequence, ReasonNone},
		{"跟牌不要", Cards{}, prev, true, ComboPass, ReasonNone},
		{"跟牌更大的顺子", mk(4, 5, 6, 7, 8), prev, true, ComboSequence, ReasonNone},
		{"跟牌长度不同", mk(4, 5, 6, 7, 8, 9), prev, false, ComboSequence, ReasonDoesNotBeat},
		{"跟牌炸弹", mk(6, 6, 6, 6), prev, true, ComboBomb, ReasonNone},
		{"跟牌不合法", mk(6, 6, 7), prev, false, ComboPass, ReasonInvalidCombo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Validation
			if tt.prev == nil {
				got = v.ValidateLead(tt.cards)
			} else {
				got = v.ValidateFollow(tt.cards, tt.prev)
			}
			if got.Ok != tt.wantOk || got.Reason != tt.reason {
				t.Fatalf("expected ok=%v reason=%q, got ok=%v reason=%q", tt.wantOk, tt.reason, got.Ok, got.Reason)
			}
			if got.Combo != nil && got.Combo.Type != tt.wantType {
				t.Errorf("expected %s, got %s", tt.wantType, got.Combo.Type)
			}
		})
	}

	// 没有上家牌时跟牌按首出处理
	if got := v.ValidateFollow(Cards{}, nil); got.Reason != ReasonPassNotAllowedWhenLeading {
		t.Errorf("expected %q, got %q", ReasonPassNotAllowedWhenLeading, got.Reason)
	}
}
