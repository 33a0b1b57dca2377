package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	// BulkTradeMax is what the max-quantity sentinel resolves to on buy and
	// the cap on sell-everything.
	BulkTradeMax int `yaml:"bulk_trade_max"`
	ItemsPerPage int `yaml:"items_per_page"`

	AutosaveSeconds int `yaml:"autosave_seconds"`

	RateLimits RateLimits `yaml:"rate_limits"`
}

type RateLimits struct {
	TradeWindowMs int `yaml:"trade_window_ms"`
	TradeMax      int `yaml:"trade_max"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		BulkTradeMax:    64,
		ItemsPerPage:    27, // 9x3 grid
		AutosaveSeconds: 300,
		RateLimits: RateLimits{
			TradeWindowMs: 1000,
			TradeMax:      10,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.BulkTradeMax <= 0 || t.ItemsPerPage <= 0 {
		return t, fmt.Errorf("tuning.yaml: bulk_trade_max and items_per_page must be positive")
	}
	return t, nil
}
