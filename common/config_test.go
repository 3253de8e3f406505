package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.ListenAddr = "" },
			wantErr: "listen_addr",
		},
		{
			name:    "zero concurrent crawls",
			mutate:  func(c *Config) { c.MaxConcurrentCrawls = 0 },
			wantErr: "max_concurrent_crawls",
		},
		{
			name:    "zero default max videos",
			mutate:  func(c *Config) { c.DefaultMaxVideos = 0 },
			wantErr: "default_max_videos",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.RequestTimeout = -1 },
			wantErr: "request_timeout_seconds",
		},
		{
			name:    "bogus log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CHANNEL_INSIGHTS_YOUTUBE_API_KEY", "yt-key")
	t.Setenv("CHANNEL_INSIGHTS_LISTEN_ADDR", ":8080")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "yt-key", cfg.YouTubeAPIKey)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.DefaultMaxVideos)
}

func TestLoadConfigLegacyEnvNames(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "legacy-yt")
	t.Setenv("GEMINI_API_KEY", "legacy-gemini")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "legacy-yt", cfg.YouTubeAPIKey)
	assert.Equal(t, "legacy-gemini", cfg.GeminiAPIKey)
}
