// Package config handles environment configuration loading.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	Port        string
	Environment string
	DBUrl       string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Prices API (OSRS wiki real-time prices).
	PricesAPIBase  string
	PricesAPIAgent string
	PollInterval   time.Duration
	MappingRefresh time.Duration

	// Guest account lifecycle.
	GuestTTL       time.Duration
	ReaperInterval time.Duration

	OTLPEndpoint string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "dev"),
		DBUrl:       getEnv("DB_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		PricesAPIBase:  getEnv("PRICES_API_BASE", "https://prices.runescape.wiki/api/v1/osrs"),
		PricesAPIAgent: getEnv("PRICES_API_AGENT", "gp-kitchen"),
		PollInterval:   getEnvDuration("POLL_INTERVAL", 5*time.Minute),
		MappingRefresh: getEnvDuration("MAPPING_REFRESH", 24*time.Hour),

		GuestTTL:       getEnvDuration("GUEST_TTL", 7*24*time.Hour),
		ReaperInterval: getEnvDuration("REAPER_INTERVAL", time.Hour),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration reads a duration environment variable (e.g. "5m") or returns
// a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// GetAddr returns the full address string for the server.
func (c *Config) GetAddr() string {
	return ":" + c.Port
}
