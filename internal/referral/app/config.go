package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/service"
)

type Config struct {
	JWTSecret   string   // Required: shared HMAC secret for verifying access tokens
	JWTIssuer   string   // Optional: expected issuer claim (default: bartab-auth)
	JWTAudience []string // Optional: accepted audience claims (space-delimited env)

	// ServiceTokens maps an internal caller name to its bearer token, parsed
	// from "name:token,name:token" form. Only SHA-256 fingerprints are kept
	// in memory after load.
	ServiceTokens map[string]string

	DatabaseFile string // Optional: path to SQLite database file (default: ./referral.db)

	ReservedCodes  []string // Optional: extra reserved code words (comma-delimited env)
	ProfanityWords []string // Optional: extra blocked words (comma-delimited env)

	UpdateLimit    int64         // Code updates allowed per window (default: 5)
	UpdateWindow   time.Duration // Code update quota window (default: 24h, UTC-day aligned)
	ValidateLimit  int64         // Public validations allowed per window (default: 20)
	ValidateWindow time.Duration // Validation quota window (default: 1m)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:   os.Getenv("REFERRAL_JWT_SECRET"),
		JWTIssuer:   getEnvOrDefault("REFERRAL_JWT_ISSUER", "bartab-auth"),
		JWTAudience: splitFields(os.Getenv("REFERRAL_JWT_AUDIENCE"), " "),

		ServiceTokens: parseServiceTokens(os.Getenv("REFERRAL_SERVICE_TOKENS")),

		DatabaseFile: getEnvOrDefault("REFERRAL_DATABASE_FILE", "referral.db"),

		ReservedCodes:  splitFields(os.Getenv("REFERRAL_RESERVED_CODES"), ","),
		ProfanityWords: splitFields(os.Getenv("REFERRAL_PROFANITY_WORDS"), ","),

		UpdateLimit:    int64(getEnvIntOrDefault("REFERRAL_UPDATE_LIMIT", service.DefaultUpdateLimit)),
		UpdateWindow:   getEnvDurationOrDefault("REFERRAL_UPDATE_WINDOW", service.DefaultUpdateWindow),
		ValidateLimit:  int64(getEnvIntOrDefault("REFERRAL_VALIDATE_LIMIT", service.DefaultValidateLimit)),
		ValidateWindow: getEnvDurationOrDefault("REFERRAL_VALIDATE_WINDOW", service.DefaultValidateWindow),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// parseServiceTokens parses "name:token,name:token" pairs. Malformed entries
// are skipped; the caller is expected to notice the missing peer at rollout.
func parseServiceTokens(raw string) map[string]string {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, token, ok := strings.Cut(pair, ":")
		if !ok || name == "" || token == "" {
			continue
		}
		tokens[name] = token
	}
	return tokens
}

func splitFields(raw, sep string) []string {
	var out []string
	for _, f := range strings.Split(raw, sep) {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
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
