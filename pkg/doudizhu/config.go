package doudizhu

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ScoringMode 计分模式
type ScoringMode string

const (
	ScoringCompetition ScoringMode = "competition" // 比赛模式，每个农民单独计算倍数
	ScoringSimple      ScoringMode = "simple"      // 简单模式，所有人共用一个倍数
)

// Config 一局的规则开关
type Config struct {
	ScoringMode         ScoringMode `json:"scoringMode"`
	PerDefenderDoubling bool        `json:"perDefenderDoubling"` // 地主反加倍只对加倍的农民生效
	DoublingEnabled     bool        `json:"doublingEnabled"`     // 关闭后叫分结束直接进入出牌
	QuadplexAsBomb      bool        `json:"quadplexAsBomb"`      // 预留，牌型识别暂不使用
	RevealBottom        bool        `json:"revealBottom"`        // 底牌并入地主手牌时翻开，只影响展示
}

// DefaultConfig 默认规则
func DefaultConfig() Config {
	return Config{
		ScoringMode:         ScoringCompetition,
		PerDefenderDoubling: true,
		DoublingEnabled:     true,
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	switch c.ScoringMode {
	case ScoringCompetition, ScoringSimple:
	default:
		return fmt.Errorf("unknown scoring mode %q", c.ScoringMode)
	}
	return nil
}

// ConfigFromViper 从 viper 的 rules 段读取规则，未设置的项使用默认值
func ConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if v == nil {
		return cfg, nil
	}
	if v.IsSet("rules.scoring_mode") {
		cfg.ScoringMode = ScoringMode(strings.ToLower(cast.ToString(v.Get("rules.scoring_mode"))))
	}
	if v.IsSet("rules.per_defender_doubling") {
		cfg.PerDefenderDoubling = cast.ToBool(v.Get("rules.per_defender_doubling"))
	}
	if v.IsSet("rules.doubling_enabled") {
		cfg.DoublingEnabled = cast.ToBool(v.Get("rules.doubling_enabled"))
	}
	if v.IsSet("rules.quadplex_as_bomb") {
		cfg.QuadplexAsBomb = cast.ToBool(v.Get("rules.quadplex_as_bomb"))
	}
	if v.IsSet("rules.reveal_bottom") {
		cfg.RevealBottom = cast.ToBool(v.Get("rules.reveal_bottom"))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
