package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Data providers.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
	ProviderMock         = "mock"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider      string        `yaml:"provider" validate:"oneof=alphavantage yahoo mock"`
		APIKey        string        `yaml:"api_key" validate:"required_if=Provider alphavantage"`
		BaseURL       string        `yaml:"base_url" validate:"omitempty,url"`
		Interval      time.Duration `yaml:"interval" validate:"gte=0"`
		FullHistory   bool          `yaml:"full_history"`
		OverridesFile string        `yaml:"overrides_file"`
	} `yaml:"data_source"`
	Scoring struct {
		Strategy string `yaml:"strategy" validate:"oneof=percentage points"`
	} `yaml:"scoring"`
	Cache struct {
		Disabled bool          `yaml:"disabled"`
		Path     string        `yaml:"path" validate:"required_without=Disabled"`
		TTL      time.Duration `yaml:"ttl" validate:"gt=0"`
	} `yaml:"cache"`
	Resolver struct {
		AliasesFile       string `yaml:"aliases_file"`
		ListingsFile      string `yaml:"listings_file"`
		IndexPath         string `yaml:"index_path"`
		TickerPassthrough bool   `yaml:"ticker_passthrough"`
	} `yaml:"resolver"`
	News struct {
		APIKey      string `yaml:"api_key"`
		RSS         bool   `yaml:"rss"`
		MaxArticles int    `yaml:"max_articles" validate:"gte=0,lte=20"`
	} `yaml:"news"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		PruneCron  string   `yaml:"prune_cron"`
		ReportCron string   `yaml:"report_cron"`
		Watchlist  []string `yaml:"watchlist" validate:"dive,required"`
	} `yaml:"schedule"`
	Logging struct {
		Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" validate:"oneof=console json"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.News.RSS = true

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"DATA_PROVIDER", &c.DataSource.Provider},
		{"ALPHAVANTAGE_API_KEY", &c.DataSource.APIKey},
		{"ALPHAVANTAGE_BASE_URL", &c.DataSource.BaseURL},
		{"NEWSAPI_KEY", &c.News.APIKey},
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"HTTPS_PROXY", &c.Proxy},
		{"CACHE_PATH", &c.Cache.Path},
		{"LOG_LEVEL", &c.Logging.Level},
		{"SCORING_STRATEGY", &c.Scoring.Strategy},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Schedule.Watchlist = splitList(v)
	}
}

func (c *Config) applyDefaults() {
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderAlphaVantage
	}
	if c.DataSource.Interval == 0 && c.DataSource.Provider == ProviderAlphaVantage {
		c.DataSource.Interval = 12 * time.Second
	}
	c.Scoring.Strategy = strings.ToLower(c.Scoring.Strategy)
	if c.Scoring.Strategy == "" {
		c.Scoring.Strategy = "percentage"
	}
	if c.Cache.Path == "" && !c.Cache.Disabled {
		c.Cache.Path = "data/cache.db"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 30 * time.Minute
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 5
	}
	if c.Schedule.PruneCron == "" {
		c.Schedule.PruneCron = "0 */30 * * * *"
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 0 8 * * 1-5"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	for i, t := range c.Schedule.Watchlist {
		c.Schedule.Watchlist[i] = strings.ToUpper(strings.TrimSpace(t))
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateBot checks the settings the Telegram bot needs on top of Validate.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
