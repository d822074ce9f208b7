package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"KlineWatch/internal/model"
)

// IndicatorConfig is the YAML shape of one indicator spec.
type IndicatorConfig struct {
	Name          string  `yaml:"name"`
	Period        int     `yaml:"period"`
	BuyThreshold  float64 `yaml:"buy_threshold"`
	SellThreshold float64 `yaml:"sell_threshold"`
	StdDev        float64 `yaml:"std_dev"`
}

// AlertConfig is the YAML shape of one alert rule.
type AlertConfig struct {
	Symbol     string            `yaml:"symbol"`
	Interval   string            `yaml:"interval"`
	Indicators []IndicatorConfig `yaml:"indicators"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider    string `yaml:"provider"` // bingx | yahoo | mock
		BaseURL     string `yaml:"base_url"`
		WindowLimit int    `yaml:"window_limit"`
	} `yaml:"data_source"`
	Schedule struct {
		CheckEvery string `yaml:"check_every"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Proxy  string        `yaml:"proxy"`
	Alerts []AlertConfig `yaml:"alerts"`
}

// defaultIndicators are applied to every default symbol when no alerts are configured.
var defaultIndicators = []IndicatorConfig{
	{Name: "RSI", Period: 13, BuyThreshold: 30, SellThreshold: 70},
	{Name: "BollingerBands", Period: 30, StdDev: 2},
}

var defaultSymbols = []string{"BTC-USDT", "XRP-USDT", "ETH-USDT", "SOL-USDT"}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("BINGX_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CHECK_EVERY"); v != "" {
		cfg.Schedule.CheckEvery = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "bingx"
	}
	if cfg.DataSource.WindowLimit == 0 {
		cfg.DataSource.WindowLimit = 200
	}
	if cfg.Schedule.CheckEvery == "" {
		cfg.Schedule.CheckEvery = "1m"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/klinewatch.db"
	}
	if len(cfg.Alerts) == 0 {
		for _, sym := range defaultSymbols {
			inds := make([]IndicatorConfig, len(defaultIndicators))
			copy(inds, defaultIndicators)
			cfg.Alerts = append(cfg.Alerts, AlertConfig{
				Symbol:     sym,
				Interval:   "15m",
				Indicators: inds,
			})
		}
	}

	return cfg, nil
}

// CheckInterval parses the configured evaluation interval.
func (c *Config) CheckInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Schedule.CheckEvery)
	if err != nil {
		return 0, fmt.Errorf("schedule.check_every: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("schedule.check_every must be positive, got %v", d)
	}
	return d, nil
}

// Rules converts the alert configuration into domain alert rules.
func (c *Config) Rules() []model.AlertRule {
	rules := make([]model.AlertRule, 0, len(c.Alerts))
	for _, a := range c.Alerts {
		rule := model.AlertRule{Symbol: a.Symbol, Interval: a.Interval}
		for _, ind := range a.Indicators {
			rule.Indicators = append(rule.Indicators, model.IndicatorSpec{
				Kind:          model.IndicatorKind(ind.Name),
				Period:        ind.Period,
				BuyThreshold:  ind.BuyThreshold,
				SellThreshold: ind.SellThreshold,
				StdDev:        ind.StdDev,
			})
		}
		rules = append(rules, rule)
	}
	return rules
}

// Validate checks interval, window size, and every alert rule. Threshold and
// period validation rejects misconfigurations (e.g. buy >= sell) up front.
func (c *Config) Validate() error {
	if _, err := c.CheckInterval(); err != nil {
		return err
	}
	if c.DataSource.WindowLimit < 1 {
		return fmt.Errorf("data_source.window_limit must be >= 1, got %d", c.DataSource.WindowLimit)
	}
	switch c.DataSource.Provider {
	case "bingx", "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be bingx, yahoo, or mock, got %q", c.DataSource.Provider)
	}
	for _, rule := range c.Rules() {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}
