// Package config handles configuration loading for EquiLake.
// It supports an optional YAML config file with environment variable
// overrides, plus a .env file for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults matching the deployed pipeline.
var (
	DefaultSymbols   = []string{"AAPL", "TSLA", "GOOGL", "AMZN", "MSFT"}
	DefaultNewsQuery = "stocks"
)

// Config represents the complete pipeline configuration. It is resolved
// once at process start and passed explicitly into every component.
type Config struct {
	S3Bucket        string `mapstructure:"s3_bucket"         yaml:"s3_bucket"`
	AWSRegion       string `mapstructure:"aws_region"        yaml:"aws_region"`
	NewsAPIKey      string `mapstructure:"news_api_key"      yaml:"news_api_key"`
	AlphaVantageKey string `mapstructure:"alpha_vantage_api_key" yaml:"alpha_vantage_api_key"`

	Symbols   []string `mapstructure:"symbols"    yaml:"symbols"`
	NewsQuery string   `mapstructure:"news_query" yaml:"news_query"`

	ScheduleAt        string `mapstructure:"schedule_at"        yaml:"schedule_at"`        // daily run time, "HH:MM"
	ConcurrentFetches int    `mapstructure:"concurrent_fetches" yaml:"concurrent_fetches"` // ingestion only; processing is sequential

	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from the optional config file, a .env
// file if present, and environment variables. Environment variables use
// the same names the original deployment recognized: S3_BUCKET,
// AWS_REGION, NEWS_API_KEY, ALPHA_VANTAGE_API_KEY.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Symbols may come from env as a comma-separated list.
	if len(cfg.Symbols) == 1 && strings.Contains(cfg.Symbols[0], ",") {
		cfg.Symbols = splitSymbols(cfg.Symbols[0])
	}
	for i, s := range cfg.Symbols {
		cfg.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants that must hold before any work starts.
// The storage destination is the only fatal requirement.
func (c *Config) Validate() error {
	if c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is not set")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbol list is empty")
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("symbols", DefaultSymbols)
	v.SetDefault("news_query", DefaultNewsQuery)
	v.SetDefault("schedule_at", "06:30")
	v.SetDefault("concurrent_fetches", 3)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// bindEnv wires the externally-documented environment variable names.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("s3_bucket", "S3_BUCKET")
	_ = v.BindEnv("aws_region", "AWS_REGION")
	_ = v.BindEnv("news_api_key", "NEWS_API_KEY")
	_ = v.BindEnv("alpha_vantage_api_key", "ALPHA_VANTAGE_API_KEY")
	_ = v.BindEnv("symbols", "STOCK_SYMBOLS")
	_ = v.BindEnv("news_query", "NEWS_QUERY")
	_ = v.BindEnv("schedule_at", "SCHEDULE_AT")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
}

// splitSymbols splits a comma-separated symbol list.
func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
