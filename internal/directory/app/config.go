package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	httpapi "github.com/aussiebroadwan/roster/internal/directory/http"
	"github.com/aussiebroadwan/roster/internal/directory/store/drivers/sqlite"
	"github.com/aussiebroadwan/roster/pkg/httpx"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type Config struct {
	StoreDriver         string        // Store driver (memory, sqlite) (default: memory)
	SQLiteDSN           string        // SQLite DSN, only read by the sqlite driver (default: shared in-memory)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	RateLimits          httpapi.RateLimits
}

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first if there is one; variables already set in
// the environment take precedence over it.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		StoreDriver:         getEnvOrDefault("ROSTER_STORE_DRIVER", DriverMemory),
		SQLiteDSN:           getEnvOrDefault("ROSTER_SQLITE_DSN", sqlite.DefaultDSN),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		RateLimits: httpapi.RateLimits{
			Strict:   httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit),
			Moderate: httpx.ParseRateLimitFromEnv("MODERATE", httpx.ModerateLimit),
			Lenient:  httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit),
		},
	}
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
