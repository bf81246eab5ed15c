package doudizhu

// Validation 出牌校验结果
type Validation struct {
	Ok     bool   `json:"ok"`
	Reason Reason `json:"reason,omitempty"`
	Combo  *Combo `json:"combo,omitempty"`
}

// PlayValidator 组合牌型识别和大小比较，给客户端预校验或托管使用
// 不检查手牌归属，归属由 Round.Play 校验
type PlayValidator struct{}

// NewPlayValidator
func NewPlayValidator() *PlayValidator {
	return &PlayValidator{}
}

// ValidateLead 首出校验，不能不出
func (v *PlayValidator) ValidateLead(cards Cards) Validation {
	if len(cards) == 0 {
		return Validation{Reason: ReasonPassNotAllowedWhenLeading}
	}
	combo := Classify(cards)
	if combo == nil {
		return Validation{Reason: ReasonInvalidCombo}
	}
	return Validation{Ok: true, Combo: combo}
}

// ValidateFollow 跟牌校验，prev 为 nil 时按首出处理
func (v *PlayValidator) ValidateFollow(cards Cards, prev *Combo) Validation {
	if prev.IsPass() {
		return v.ValidateLead(cards)
	}
	combo := Classify(cards)
	if combo == nil {
		return Validation{Reason: ReasonInvalidCombo}
	}
	if combo.IsPass() {
		return Validation{Ok: true, Combo: combo}
	}
	if !Beats(combo, prev) {
		return Validation{Reason: ReasonDoesNotBeat, Combo: combo}
	}
	return Validation{Ok: true, Combo: combo}
}
