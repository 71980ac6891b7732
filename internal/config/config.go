// Package config loads gora-search runtime configuration from defaults, an
// optional YAML file and GORA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBaseURL    = "https://app.rakuten.co.jp/services/api/Gora"
	DefaultSearchPath = "/GoraGolfCourseSearch/20170623"
	DefaultDetailPath = "/GoraGolfCourseDetail/20170623"
	DefaultDataDir    = "~/.local/share/gora-search"
	DefaultListenAddr = "127.0.0.1:8787"
)

// Config holds everything the CLI and the popup server need at startup.
type Config struct {
	BaseURL    string `mapstructure:"base_url"`
	SearchPath string `mapstructure:"search_path"`
	DetailPath string `mapstructure:"detail_path"`

	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	RateBurst     int           `mapstructure:"rate_burst"`

	BreakerThreshold uint32        `mapstructure:"breaker_threshold"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`

	DetailCacheTTL time.Duration `mapstructure:"detail_cache_ttl"`

	DataDir            string `mapstructure:"data_dir"`
	SettingsPassphrase string `mapstructure:"settings_passphrase"`
	ListenAddr         string `mapstructure:"listen_addr"`
	LogLevel           string `mapstructure:"log_level"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("search_path", DefaultSearchPath)
	v.SetDefault("detail_path", DefaultDetailPath)
	v.SetDefault("timeout", "10s")
	v.SetDefault("rate_per_second", 1.0)
	v.SetDefault("rate_burst", 1)
	v.SetDefault("breaker_threshold", 5) // consecutive transport/rate-limit failures
	v.SetDefault("breaker_timeout", "30s")
	v.SetDefault("detail_cache_ttl", "24h")
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("settings_passphrase", "")
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("GORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration. An explicit file must exist; otherwise config.yaml
// is looked up in the current directory and the default data directory.
func Load(file string) (*Config, error) {
	v := New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := ExpandHome(DefaultDataDir); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	dataDir, err := ExpandHome(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the API client cannot work with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(c.SearchPath, "/") || !strings.HasPrefix(c.DetailPath, "/") {
		return fmt.Errorf("search_path and detail_path must start with /")
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("rate_per_second must not be negative")
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1")
	}
	return nil
}

// ExpandHome expands a leading ~/ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
