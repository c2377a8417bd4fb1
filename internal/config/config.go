package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for a tradelab run.
type Config struct {
	Alpaca   Alpaca         `yaml:"alpaca"`
	Backtest BacktestConfig `yaml:"backtest"`
	Breakout BreakoutConfig `yaml:"breakout"`
	Chart    ChartConfig    `yaml:"chart"`
	Logging  Logging        `yaml:"logging"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	DataURL   string `yaml:"data_url"`
	Feed      string `yaml:"feed"`
}

// BacktestConfig defines the shared run parameters: which ticker and
// history window to replay, and the portfolio every strategy starts from.
type BacktestConfig struct {
	Symbol         string   `yaml:"symbol"`
	Years          int      `yaml:"years"`
	InitialCash    float64  `yaml:"initial_cash"`
	CommissionRate float64  `yaml:"commission_rate"`
	Strategies     []string `yaml:"strategies"`
}

// BreakoutConfig holds the breakout strategy parameters.
type BreakoutConfig struct {
	LookbackPeriod int     `yaml:"lookback_period"`
	StopLossPct    float64 `yaml:"stop_loss_pct"`
	TakeProfitPct  float64 `yaml:"take_profit_pct"`
}

// ChartConfig controls the candlestick chart output.
type ChartConfig struct {
	Enabled bool   `yaml:"enabled"`
	OutDir  string `yaml:"out_dir"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into
// a Config struct, applies environment variable overrides, fills defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset fields with the canonical run parameters: SPY,
// two years of history, $100,000 starting cash, 0.1% commission, and the
// stock breakout settings.
func applyDefaults(cfg *Config) {
	if cfg.Backtest.Symbol == "" {
		cfg.Backtest.Symbol = "SPY"
	}
	if cfg.Backtest.Years <= 0 {
		cfg.Backtest.Years = 2
	}
	if cfg.Backtest.InitialCash == 0 {
		cfg.Backtest.InitialCash = 100000
	}
	if cfg.Backtest.CommissionRate == 0 {
		cfg.Backtest.CommissionRate = 0.001
	}
	if len(cfg.Backtest.Strategies) == 0 {
		cfg.Backtest.Strategies = []string{"breakout", "buyhold"}
	}
	if cfg.Breakout.LookbackPeriod <= 0 {
		cfg.Breakout.LookbackPeriod = 20
	}
	if cfg.Breakout.StopLossPct <= 0 {
		cfg.Breakout.StopLossPct = 0.05
	}
	if cfg.Breakout.TakeProfitPct <= 0 {
		cfg.Breakout.TakeProfitPct = 0.15
	}
	if cfg.Chart.OutDir == "" {
		cfg.Chart.OutDir = "charts"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Backtest.InitialCash <= 0 {
		return fmt.Errorf("backtest.initial_cash must be positive, got %.2f", c.Backtest.InitialCash)
	}
	if c.Backtest.CommissionRate < 0 {
		return fmt.Errorf("backtest.commission_rate must be non-negative, got %.4f", c.Backtest.CommissionRate)
	}
	if c.Breakout.LookbackPeriod < 1 {
		return fmt.Errorf("breakout.lookback_period must be at least 1, got %d", c.Breakout.LookbackPeriod)
	}
	return nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("TRADELAB_SYMBOL"); v != "" {
		cfg.Backtest.Symbol = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars take highest priority.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
