package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Sensitive values can be
// overridden through environment variables after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		OKX struct {
			WSURL     string   `yaml:"ws_url"`
			RestURL   string   `yaml:"rest_url"`
			AccessKey string   `yaml:"access_key"`
			SecretKey string   `yaml:"secret_key"`
			Symbols   []string `yaml:"symbols"`
		} `yaml:"okx"`
	} `yaml:"api"`

	Trade struct {
		DepthLimit            int             `yaml:"depth_limit"`
		Leverage              decimal.Decimal `yaml:"leverage"`
		MaintenanceMarginRate decimal.Decimal `yaml:"maintenance_margin_rate"`
		FeeRate               decimal.Decimal `yaml:"fee_rate"`
		IncludeFees           bool            `yaml:"include_fees"`
	} `yaml:"trade"`

	UI struct {
		UpdateIntervalMS int `yaml:"update_interval_ms"`
	} `yaml:"ui"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.API.OKX.WSURL == "" || (!hasPrefix(c.API.OKX.WSURL, "ws://") && !hasPrefix(c.API.OKX.WSURL, "wss://")) {
		return fmt.Errorf("invalid OKX WS URL: %s", c.API.OKX.WSURL)
	}
	if len(c.API.OKX.Symbols) == 0 {
		return fmt.Errorf("at least one OKX symbol is required")
	}

	if c.Trade.DepthLimit < 0 {
		return fmt.Errorf("depth limit must be non-negative")
	}
	if c.Trade.Leverage.IsNegative() || c.Trade.Leverage.IsZero() {
		return fmt.Errorf("leverage must be positive")
	}
	if c.Trade.MaintenanceMarginRate.IsNegative() {
		return fmt.Errorf("maintenance margin rate must be non-negative")
	}

	if c.UI.UpdateIntervalMS <= 0 {
		return fmt.Errorf("update interval must be positive")
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces config values when environment variables exist.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("SPOT_OKX_KEY"); key != "" {
		cfg.API.OKX.AccessKey = key
	}
	if secret := os.Getenv("SPOT_OKX_SECRET"); secret != "" {
		cfg.API.OKX.SecretKey = secret
	}
}
