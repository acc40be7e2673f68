// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For the autoquote scheduler, which needs a destination, use ValidateAutoQuoteReady.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Discord
	DiscordToken string

	// Quote storage
	QuotesFile string
	AvatarDir  string

	// Avatar URL resolution
	AvatarBaseURL    string
	DefaultAvatarURL string

	// Autoquote scheduler
	AutoQuoteEnabled   bool
	AutoQuoteGuildID   string
	AutoQuoteChannelID string
	AutoQuoteMinDelay  time.Duration
	AutoQuoteMaxDelay  time.Duration

	// HTTP
	HTTPAddr string
}

// Load reads environment variables and applies defaults. It doesn't fail if the Discord token
// is missing; callers that require the gateway should check DiscordToken themselves. Missing
// optional variables disable features (e.g., AUTOQUOTE_ENABLED).
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DiscordToken = os.Getenv("DISCORD_TOKEN")

	cfg.QuotesFile = os.Getenv("QUOTES_FILE")
	if cfg.QuotesFile == "" {
		cfg.QuotesFile = "data/quotes.json"
	}
	cfg.AvatarDir = os.Getenv("AVATAR_DIR")
	if cfg.AvatarDir == "" {
		cfg.AvatarDir = "data/avatars"
	}

	cfg.AvatarBaseURL = os.Getenv("AVATAR_BASE_URL")
	cfg.DefaultAvatarURL = os.Getenv("DEFAULT_AVATAR_URL")

	cfg.AutoQuoteEnabled = os.Getenv("AUTOQUOTE_ENABLED") == "1"
	cfg.AutoQuoteGuildID = os.Getenv("AUTOQUOTE_GUILD_ID")
	cfg.AutoQuoteChannelID = os.Getenv("AUTOQUOTE_CHANNEL_ID")

	var err error
	cfg.AutoQuoteMinDelay, err = delayFromEnv("AUTOQUOTE_MIN_DELAY", 3600*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.AutoQuoteMaxDelay, err = delayFromEnv("AUTOQUOTE_MAX_DELAY", 28800*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

// delayFromEnv parses an integer-seconds env var, falling back to def when unset.
func delayFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s (positive integer seconds): %q", key, v)
	}
	return time.Duration(n) * time.Second, nil
}

// ValidateAutoQuoteReady checks required fields when the autoquote scheduler is enabled.
func (c *Config) ValidateAutoQuoteReady() error {
	if c.AutoQuoteGuildID == "" || c.AutoQuoteChannelID == "" {
		return fmt.Errorf("missing autoquote env: require AUTOQUOTE_GUILD_ID, AUTOQUOTE_CHANNEL_ID")
	}
	return nil
}
