package doudizhu

import (
	"testing"

	"github.com/spf13/viper"
)

func TestConfigFromViper(t *testing.T) {
	v := viper.New()
	cfg, err := ConfigFromViper(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	v.Set("rules.scoring_mode", "SIMPLE")
	v.Set("rules.per_defender_doubling", "false")
	v.Set("rules.doubling_enabled", false)
	v.Set("rules.reveal_bottom", 1)
	cfg, err = ConfigFromViper(v)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{ScoringMode: ScoringSimple, RevealBottom: true}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}

	v.Set("rules.scoring_mode", "tournament")
	if _, err := ConfigFromViper(v); err == nil {
		t.Error("expected an error for an unknown scoring mode")
	}
}
