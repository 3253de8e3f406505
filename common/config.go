// Package common provides configuration and shared helpers for the
// channel-insights service.
package common

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the service configuration.
type Config struct {
	ListenAddr          string `mapstructure:"listen_addr"`
	YouTubeAPIKey       string `mapstructure:"youtube_api_key"`
	GeminiAPIKey        string `mapstructure:"gemini_api_key"`
	MaxConcurrentCrawls int64  `mapstructure:"max_concurrent_crawls"`
	DefaultMaxVideos    int    `mapstructure:"default_max_videos"`
	RequestTimeout      int    `mapstructure:"request_timeout_seconds"`
	LogLevel            string `mapstructure:"log_level"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:          ":3001",
		MaxConcurrentCrawls: 8,
		DefaultMaxVideos:    10,
		RequestTimeout:      30,
		LogLevel:            "info",
	}
}

// LoadConfig reads configuration from an optional file and the
// environment. Environment variables use the CHANNEL_INSIGHTS_ prefix
// (CHANNEL_INSIGHTS_YOUTUBE_API_KEY etc.); the bare YOUTUBE_API_KEY and
// GEMINI_API_KEY variables are honoured as well since that is what the
// original deployment exported.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("max_concurrent_crawls", defaults.MaxConcurrentCrawls)
	v.SetDefault("default_max_videos", defaults.DefaultMaxVideos)
	v.SetDefault("request_timeout_seconds", defaults.RequestTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	// Registered with empty defaults so AutomaticEnv picks them up
	// during Unmarshal.
	v.SetDefault("youtube_api_key", "")
	v.SetDefault("gemini_api_key", "")

	v.SetEnvPrefix("CHANNEL_INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Legacy environment names take effect only when the prefixed
	// variables are unset.
	if cfg.YouTubeAPIKey == "" {
		cfg.YouTubeAPIKey = firstEnv(v, "YOUTUBE_API_KEY", "REACT_APP_YOUTUBE_API_KEY")
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = firstEnv(v, "GEMINI_API_KEY", "REACT_APP_GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstEnv(v *viper.Viper, names ...string) string {
	for _, name := range names {
		v.BindEnv(name, name)
		if val := v.GetString(name); val != "" {
			return val
		}
	}
	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}

	if c.MaxConcurrentCrawls < 1 {
		return fmt.Errorf("max_concurrent_crawls must be at least 1")
	}

	if c.DefaultMaxVideos < 1 {
		return fmt.Errorf("default_max_videos must be at least 1")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s', must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
