// Package config provides Viper-based configuration management for suprss
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is where the API listens in the stock deployment.
const DefaultBaseURL = "http://localhost:8000"

// Config represents the complete suprss configuration
type Config struct {
	API        APIConfig        `mapstructure:"api" json:"api"`
	Session    SessionConfig    `mapstructure:"session" json:"session"`
	Pagination PaginationConfig `mapstructure:"pagination" json:"pagination"`
	Unread     UnreadConfig     `mapstructure:"unread" json:"unread"`
	Logging    LoggingConfig    `mapstructure:"logging" json:"logging"`
	Output     OutputConfig     `mapstructure:"output" json:"output"`
}

// APIConfig locates the server
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// SessionConfig controls where the token is stored. An empty file means
// the per-user default.
type SessionConfig struct {
	File string `mapstructure:"file" json:"file"`
}

// PaginationConfig sets list page sizes
type PaginationConfig struct {
	PageSize int `mapstructure:"page_size" json:"page_size"`
}

// UnreadConfig tunes unread polling and the per-feed fan-out
type UnreadConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" json:"poll_interval"`
	Concurrency  int           `mapstructure:"concurrency" json:"concurrency"`
	Rate         float64       `mapstructure:"rate" json:"rate"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors" json:"colors"`
}

// Load reads configuration from file and environment variables. It also
// returns the config file used, or "" when only defaults and environment
// apply.
func Load(cfgFile string) (*Config, string, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".suprss")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/suprss")
	}

	// SUPRSS_API_BASE_URL maps to api.base_url
	v.SetEnvPrefix("SUPRSS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")

	if err := validate(&cfg); err != nil {
		return nil, "", fmt.Errorf("validating config: %w", err)
	}

	return &cfg, v.ConfigFileUsed(), nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		API:        APIConfig{BaseURL: DefaultBaseURL, Timeout: 30 * time.Second},
		Pagination: PaginationConfig{PageSize: 20},
		Unread:     UnreadConfig{PollInterval: 30 * time.Second, Concurrency: 4, Rate: 10},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
		Output:     OutputConfig{Colors: true},
	}
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)

	// Bound so AutomaticEnv can override it
	v.SetDefault("session.file", "")

	v.SetDefault("pagination.page_size", d.Pagination.PageSize)

	v.SetDefault("unread.poll_interval", d.Unread.PollInterval)
	v.SetDefault("unread.concurrency", d.Unread.Concurrency)
	v.SetDefault("unread.rate", d.Unread.Rate)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("output.colors", d.Output.Colors)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api.base_url: %q (must be an http or https URL)", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout: %s (must be positive)", cfg.API.Timeout)
	}

	if cfg.Pagination.PageSize < 1 || cfg.Pagination.PageSize > 100 {
		return fmt.Errorf("invalid pagination.page_size: %d (must be between 1 and 100)", cfg.Pagination.PageSize)
	}

	if cfg.Unread.PollInterval < time.Second {
		return fmt.Errorf("invalid unread.poll_interval: %s (must be at least 1s)", cfg.Unread.PollInterval)
	}
	if cfg.Unread.Concurrency < 1 {
		return fmt.Errorf("invalid unread.concurrency: %d (must be at least 1)", cfg.Unread.Concurrency)
	}
	if cfg.Unread.Rate <= 0 {
		return fmt.Errorf("invalid unread.rate: %g (must be positive)", cfg.Unread.Rate)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
