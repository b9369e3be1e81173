package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/keygate/pkg/sessionx"
)

type Config struct {
	Issuer string // Optional: issuer claim for session tokens (default: keygate)

	DatabaseFile string // Optional: path to SQLite database file (default: ./keygate.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	// Master invitation key seeded at startup. Optional: when the token is
	// empty no key is seeded.
	MasterKey        string
	MasterKeyLabel   string
	MasterKeyMaxUses int

	SessionTTL time.Duration // Optional: session token lifetime (default: 12h)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:       getEnvOrDefault("KEYGATE_ISSUER", "keygate"),
		DatabaseFile: getEnvOrDefault("KEYGATE_DATABASE_FILE", "keygate.db"),
		PepperFile:   getEnvOrDefault("KEYGATE_PEPPER_FILE", "pepper"),

		MasterKey:        os.Getenv("KEYGATE_MASTER_KEY"),
		MasterKeyLabel:   getEnvOrDefault("KEYGATE_MASTER_KEY_LABEL", "master"),
		MasterKeyMaxUses: getEnvIntOrDefault("KEYGATE_MASTER_KEY_MAX_USES", 100),

		SessionTTL: getEnvDurationOrDefault("KEYGATE_SESSION_TTL", sessionx.DefaultSessionTTL),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
