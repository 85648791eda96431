package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the whole application configuration. Loaded from yaml,
// then overridden with environment variables for deploy-specific values.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Market struct {
		TickIntervalSec      int     `yaml:"tick_interval_sec"`
		Seed                 int64   `yaml:"seed"` // 0 = time-based
		Volatility           float64 `yaml:"volatility"`
		MaxChangePct         float64 `yaml:"max_change_pct"`
		SupplyImpact         float64 `yaml:"supply_impact"`
		PhantomOpenChance    float64 `yaml:"phantom_open_chance"`
		FoilListingChance    float64 `yaml:"foil_listing_chance"`
		ListingPriceVariance float64 `yaml:"listing_price_variance"`
		AmbientBuyMin        float64 `yaml:"ambient_buy_min"`
		AmbientBuyMax        float64 `yaml:"ambient_buy_max"`
		SentimentStep        float64 `yaml:"sentiment_step"`
	} `yaml:"market"`

	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`

	Push struct {
		Addr         string  `yaml:"addr"`
		NotifyPerSec float64 `yaml:"notify_per_sec"`
		NotifyBurst  int     `yaml:"notify_burst"`
	} `yaml:"push"`

	Storage struct {
		Path string `yaml:"path"` // empty = per-user config dir
	} `yaml:"storage"`

	Wallet struct {
		StartingBalance float64 `yaml:"starting_balance"`
	} `yaml:"wallet"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies defaults
// and environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset simulation knobs with the stock tuning.
func (c *Config) applyDefaults() {
	m := &c.Market
	if m.TickIntervalSec == 0 {
		m.TickIntervalSec = 60
	}
	if m.Volatility == 0 {
		m.Volatility = 0.05
	}
	if m.MaxChangePct == 0 {
		m.MaxChangePct = 0.15
	}
	if m.SupplyImpact == 0 {
		m.SupplyImpact = 0.005
	}
	if m.PhantomOpenChance == 0 {
		m.PhantomOpenChance = 0.02
	}
	if m.FoilListingChance == 0 {
		m.FoilListingChance = 0.15
	}
	if m.ListingPriceVariance == 0 {
		m.ListingPriceVariance = 0.15
	}
	if m.AmbientBuyMin == 0 {
		m.AmbientBuyMin = 0.01
	}
	if m.AmbientBuyMax == 0 {
		m.AmbientBuyMax = 0.03
	}
	if m.SentimentStep == 0 {
		m.SentimentStep = 0.02
	}
	if c.Push.NotifyPerSec == 0 {
		c.Push.NotifyPerSec = 1
	}
	if c.Push.NotifyBurst == 0 {
		c.Push.NotifyBurst = 5
	}
	if c.Wallet.StartingBalance == 0 {
		c.Wallet.StartingBalance = 25.0
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	m := c.Market
	if m.TickIntervalSec <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if m.Volatility <= 0 || m.Volatility > 0.05 {
		return fmt.Errorf("volatility must be in (0, 0.05], got %v", m.Volatility)
	}
	if m.MaxChangePct <= 0 || m.MaxChangePct > 1 {
		return fmt.Errorf("max change pct must be in (0, 1], got %v", m.MaxChangePct)
	}
	if m.SupplyImpact < 0 {
		return fmt.Errorf("supply impact must not be negative")
	}
	if m.AmbientBuyMin < 0 || m.AmbientBuyMax < m.AmbientBuyMin {
		return fmt.Errorf("ambient buy range [%v, %v] is invalid", m.AmbientBuyMin, m.AmbientBuyMax)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}
	return nil
}

// overrideWithEnv applies environment variables over the file values.
func overrideWithEnv(cfg *Config) {
	if path := os.Getenv("CARDMARKET_CATALOG"); path != "" {
		cfg.Catalog.Path = path
	}
	if path := os.Getenv("CARDMARKET_DB"); path != "" {
		cfg.Storage.Path = path
	}
	if addr := os.Getenv("CARDMARKET_PUSH_ADDR"); addr != "" {
		cfg.Push.Addr = addr
	}
	if level := os.Getenv("CARDMARKET_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
