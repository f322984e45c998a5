package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	DatabaseURL       string
	Port              string
	CacheTTL          time.Duration
	OpenWeatherAPIKey string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Demo mode runs the synthetic measurement seeder.
	DemoMode         bool
	DemoSeedInterval time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment")
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              getenvDefault("PORT", "8080"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		DemoMode:          getenvBool("DEMO_MODE", false),
	}

	ttl, err := getenvDuration("CACHE_TTL", "300s")
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	cfg.ReadTimeout, err = getenvDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.WriteTimeout, err = getenvDuration("HTTP_WRITE_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.DemoSeedInterval, err = getenvDuration("DEMO_SEED_INTERVAL", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid DEMO_SEED_INTERVAL: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
