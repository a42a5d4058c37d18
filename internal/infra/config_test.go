package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `
api:
  okx:
    ws_url: "wss://ws.okx.com:8443/ws/v5/public"
    symbols: ["BTC-USDT"]
trade:
  depth_limit: 20
  leverage: 10
  maintenance_margin_rate: 0.05
  fee_rate: 0.001
ui:
  update_interval_ms: 1000
logging:
  level: "info"
`

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.OKX.Symbols[0] != "BTC-USDT" {
		t.Errorf("unexpected symbol: %s", cfg.API.OKX.Symbols[0])
	}
	if !cfg.Trade.Leverage.Equal(decimal.NewFromInt(10)) {
		t.Errorf("unexpected leverage: %s", cfg.Trade.Leverage)
	}
	if cfg.Trade.DepthLimit != 20 {
		t.Errorf("unexpected depth limit: %d", cfg.Trade.DepthLimit)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SPOT_OKX_KEY", "env-key")
	t.Setenv("SPOT_OKX_SECRET", "env-secret")

	cfg, err := LoadConfig(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.OKX.AccessKey != "env-key" || cfg.API.OKX.SecretKey != "env-secret" {
		t.Error("environment variables should override file credentials")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(writeConfigFile(t, validConfig))
		if err != nil {
			t.Fatalf("fixture config invalid: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing ws url", func(c *Config) { c.API.OKX.WSURL = "" }},
		{"http url", func(c *Config) { c.API.OKX.WSURL = "http://example.com" }},
		{"no symbols", func(c *Config) { c.API.OKX.Symbols = nil }},
		{"negative depth limit", func(c *Config) { c.Trade.DepthLimit = -1 }},
		{"zero leverage", func(c *Config) { c.Trade.Leverage = decimal.Zero }},
		{"negative margin rate", func(c *Config) { c.Trade.MaintenanceMarginRate = decimal.NewFromFloat(-0.01) }},
		{"zero update interval", func(c *Config) { c.UI.UpdateIntervalMS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
