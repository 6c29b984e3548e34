package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Botnoi voice API (synthesis; the credential is supplied per request)
	VoiceAPIURL string

	// Botnoi dashboard API (profile)
	DashboardAPIURL string

	// Botnoi auth exchange endpoint (Firebase ID token -> product token).
	// Lives on the staging host in the current deployment.
	AuthExchangeURL string

	// Speaker catalog resource (CSV). Empty = no catalog, speaker id stays free-form.
	SpeakerCatalogURL string

	// Redis (optional download byte cache; empty = cache disabled)
	RedisURL string

	// UI
	DefaultLanguage string // "en" or "id"

	// Timeouts (seconds)
	SynthesisTimeout int
	DownloadTimeout  int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8080"),
		BackendAPIKey:      getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		VoiceAPIURL:        getEnv("VOICE_API_URL", "https://api-voice.botnoi.ai"),
		DashboardAPIURL:    getEnv("DASHBOARD_API_URL", "https://api-voice.botnoi.ai"),
		AuthExchangeURL:    getEnv("AUTH_EXCHANGE_URL", "https://api-voice-staging.botnoi.ai"),
		SpeakerCatalogURL:  getEnv("SPEAKER_CATALOG_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "id"),
		SynthesisTimeout:   getEnvInt("SYNTHESIS_TIMEOUT_SECONDS", 90),
		DownloadTimeout:    getEnvInt("DOWNLOAD_TIMEOUT_SECONDS", 120),
	}

	// Validate
	if cfg.VoiceAPIURL == "" {
		return nil, fmt.Errorf("VOICE_API_URL must not be empty")
	}

	if cfg.DefaultLanguage != "en" && cfg.DefaultLanguage != "id" {
		return nil, fmt.Errorf("DEFAULT_LANGUAGE must be \"en\" or \"id\", got %q", cfg.DefaultLanguage)
	}

	if cfg.SynthesisTimeout <= 0 || cfg.DownloadTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
