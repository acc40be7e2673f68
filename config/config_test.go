package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUOTES_FILE", "")
	t.Setenv("AVATAR_DIR", "")
	t.Setenv("AUTOQUOTE_MIN_DELAY", "")
	t.Setenv("AUTOQUOTE_MAX_DELAY", "")
	t.Setenv("HTTP_ADDR", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.QuotesFile != "data/quotes.json" {
		t.Errorf("QuotesFile = %q, want default", cfg.QuotesFile)
	}
	if cfg.AvatarDir != "data/avatars" {
		t.Errorf("AvatarDir = %q, want default", cfg.AvatarDir)
	}
	if cfg.AutoQuoteMinDelay != time.Hour {
		t.Errorf("AutoQuoteMinDelay = %v, want 1h", cfg.AutoQuoteMinDelay)
	}
	if cfg.AutoQuoteMaxDelay != 8*time.Hour {
		t.Errorf("AutoQuoteMaxDelay = %v, want 8h", cfg.AutoQuoteMaxDelay)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.AutoQuoteEnabled {
		t.Errorf("AutoQuoteEnabled = true, want disabled by default")
	}
}

func TestLoadDelays(t *testing.T) {
	t.Setenv("AUTOQUOTE_MIN_DELAY", "30")
	t.Setenv("AUTOQUOTE_MAX_DELAY", "90")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AutoQuoteMinDelay != 30*time.Second || cfg.AutoQuoteMaxDelay != 90*time.Second {
		t.Errorf("delays = %v/%v, want 30s/90s", cfg.AutoQuoteMinDelay, cfg.AutoQuoteMaxDelay)
	}
}

func TestLoadInvalidDelay(t *testing.T) {
	t.Setenv("AUTOQUOTE_MIN_DELAY", "soon")
	if _, err := Load(); err == nil {
		t.Errorf("expected error for non-integer AUTOQUOTE_MIN_DELAY")
	}
	t.Setenv("AUTOQUOTE_MIN_DELAY", "-5")
	if _, err := Load(); err == nil {
		t.Errorf("expected error for negative AUTOQUOTE_MIN_DELAY")
	}
}

func TestValidateAutoQuoteReady(t *testing.T) {
	t.Setenv("AUTOQUOTE_GUILD_ID", "123")
	t.Setenv("AUTOQUOTE_CHANNEL_ID", "456")
	cfg, _ := Load()
	if err := cfg.ValidateAutoQuoteReady(); err != nil {
		t.Errorf("expected valid autoquote config, got %v", err)
	}
	t.Setenv("AUTOQUOTE_CHANNEL_ID", "")
	cfg, _ = Load()
	if err := cfg.ValidateAutoQuoteReady(); err == nil {
		t.Errorf("expected error when missing autoquote channel")
	}
}
