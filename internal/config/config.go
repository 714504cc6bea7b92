package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Browser   BrowserConfig   `yaml:"browser" mapstructure:"browser"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Analyze   AnalyzeConfig   `yaml:"analyze" mapstructure:"analyze"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	VisionModel string `yaml:"vision_model" mapstructure:"vision_model"`
	TextModel   string `yaml:"text_model" mapstructure:"text_model"`
}

// BrowserConfig configures the headless browser session.
type BrowserConfig struct {
	Headless       bool   `yaml:"headless" mapstructure:"headless"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	NavTimeoutSecs int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	BotWaitCapSecs int    `yaml:"bot_wait_cap_secs" mapstructure:"bot_wait_cap_secs"`
	BotPollSecs    int    `yaml:"bot_poll_secs" mapstructure:"bot_poll_secs"`
}

// ScrapeConfig configures page navigation and extraction.
type ScrapeConfig struct {
	MaxReviews       int    `yaml:"max_reviews" mapstructure:"max_reviews"`
	FieldTimeoutSecs int    `yaml:"field_timeout_secs" mapstructure:"field_timeout_secs"`
	SelectorProfile  string `yaml:"selector_profile" mapstructure:"selector_profile"`
}

// ExtractConfig configures image text extraction.
type ExtractConfig struct {
	Concurrency      int `yaml:"concurrency" mapstructure:"concurrency"`
	PaceSecs         int `yaml:"pace_secs" mapstructure:"pace_secs"`
	MinTextLength    int `yaml:"min_text_length" mapstructure:"min_text_length"`
	CallTimeoutSecs  int `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	ProbeTimeoutSecs int `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryDelaySecs   int `yaml:"retry_delay_secs" mapstructure:"retry_delay_secs"`
}

// AnalyzeConfig configures review analysis chunking.
type AnalyzeConfig struct {
	ChunkThreshold int `yaml:"chunk_threshold" mapstructure:"chunk_threshold"`
	ChunkSize      int `yaml:"chunk_size" mapstructure:"chunk_size"`
}

// ServerConfig configures the results API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRUSTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "trustlens.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.vision_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.text_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.nav_timeout_secs", 60)
	v.SetDefault("browser.bot_wait_cap_secs", 120)
	v.SetDefault("browser.bot_poll_secs", 2)
	v.SetDefault("scrape.max_reviews", 100)
	v.SetDefault("scrape.field_timeout_secs", 10)
	v.SetDefault("extract.concurrency", 1)
	v.SetDefault("extract.pace_secs", 2)
	v.SetDefault("extract.min_text_length", 10)
	v.SetDefault("extract.call_timeout_secs", 120)
	v.SetDefault("extract.probe_timeout_secs", 15)
	v.SetDefault("extract.max_attempts", 3)
	v.SetDefault("extract.retry_delay_secs", 5)
	v.SetDefault("analyze.chunk_threshold", 100)
	v.SetDefault("analyze.chunk_size", 80)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that required settings are present for the given mode
// ("run", "extract", "analyze" require the API key; "serve" only the port).
func (c *Config) Validate(mode string) error {
	var missing []string

	requireKey := func() {
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
	}

	switch mode {
	case "run", "extract", "analyze", "evaluate":
		requireKey()
	case "scrape", "serve", "products":
		// No API key needed.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		missing = append(missing, "store.driver must be sqlite or postgres")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url is required for postgres")
	}
	if c.Store.Driver == "sqlite" && c.Store.SQLitePath == "" {
		missing = append(missing, "store.sqlite_path is required for sqlite")
	}
	if mode == "serve" && c.Server.Port <= 0 {
		missing = append(missing, "server.port must be > 0")
	}
	if c.Extract.Concurrency < 1 || c.Extract.Concurrency > 10 {
		missing = append(missing, "extract.concurrency must be between 1 and 10")
	}
	if c.Analyze.ChunkSize <= 0 {
		missing = append(missing, "analyze.chunk_size must be > 0")
	}

	if len(missing) > 0 {
		return eris.Errorf("config: invalid configuration:\n  %s", strings.Join(missing, "\n  "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
