package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.APIPort)
	}
	if cfg.VoiceAPIURL != "https://api-voice.botnoi.ai" {
		t.Errorf("unexpected voice API URL %q", cfg.VoiceAPIURL)
	}
	if cfg.DefaultLanguage != "id" {
		t.Errorf("expected default language id, got %q", cfg.DefaultLanguage)
	}
	if cfg.RedisURL != "" {
		t.Errorf("redis should be disabled by default, got %q", cfg.RedisURL)
	}
}

func TestLoadRejectsBadLanguage(t *testing.T) {
	t.Setenv("DEFAULT_LANGUAGE", "th")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("SYNTHESIS_TIMEOUT_SECONDS", "-5")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("DOWNLOAD_TIMEOUT_SECONDS", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DownloadTimeout != 120 {
		t.Errorf("malformed int should fall back to default 120, got %d", cfg.DownloadTimeout)
	}
}
