package app

import (
	"os"
	"strconv"
	"time"

	"github.com/fourpaws/petstore/pkg/jwtx"
)

type Config struct {
	Issuer   string // Issuer claim for access tokens
	Audience string // Audience claim for access tokens

	DatabaseFile string // Path to SQLite database file (default: ./petstore.db)

	AccessTTL  time.Duration // Access token lifetime
	RefreshTTL time.Duration // Refresh token lifetime

	SeedUsername string // Username for the seeded admin account (default: admin)
	SeedPassword string // Optional: password for the seeded account; generated when empty

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("PETSTORE_ISSUER", "petstore"),
		Audience:             getEnvOrDefault("PETSTORE_AUDIENCE", "petstore-api"),
		DatabaseFile:         getEnvOrDefault("PETSTORE_DATABASE_FILE", "petstore.db"),
		AccessTTL:            getEnvDurationOrDefault("PETSTORE_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:           getEnvDurationOrDefault("PETSTORE_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		SeedUsername:         getEnvOrDefault("PETSTORE_SEED_USERNAME", "admin"),
		SeedPassword:         os.Getenv("PETSTORE_SEED_PASSWORD"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
