package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	AuthCheckTimeout  time.Duration
	StatePath         string
	RequestsPerSecond float64
}

func Load() *Config {
	// Optional .env for local development; real env always wins.
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:        getEnv("RIPPLE_API_URL", "http://localhost:4000"),
		RequestTimeout:    getEnvDuration("RIPPLE_TIMEOUT", 15*time.Second),
		AuthCheckTimeout:  getEnvDuration("RIPPLE_AUTH_TIMEOUT", 5*time.Second),
		StatePath:         getEnv("RIPPLE_STATE_PATH", defaultStatePath()),
		RequestsPerSecond: getEnvFloat("RIPPLE_RPS", 10),
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ripple", "state.db")
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}

	return d
}

func getEnvFloat(key string, fallback float64) float64 {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return fallback
	}

	return f
}
